package engine

import (
	"fmt"
	"math"

	"github.com/gloomdelve/server/internal/game"
)

// ActionRequest is one intent submitted for resolution. The resolver
// validates it against current battle state before anything mutates.
type ActionRequest struct {
	ActorID  uint            `json:"actor_id"`
	Type     game.ActionType `json:"type"`
	SkillID  uint            `json:"skill_id,omitempty"`
	ItemID   uint            `json:"item_id,omitempty"`
	TargetID uint            `json:"target_id,omitempty"`
}

// ActionResolver turns a validated request into a resolved BattleAction,
// mutating actor and targets along the way. Each resolved action is final
// and immutable once recorded.
type ActionResolver struct {
	catalog Catalog
	effects StatusEffectManager
}

func NewActionResolver(catalog Catalog) *ActionResolver {
	return &ActionResolver{catalog: catalog}
}

const (
	minHitChance  = 5.0
	maxHitChance  = 95.0
	minFleeChance = 5.0
	maxFleeChance = 95.0
)

// Resolve validates and executes one action inside a running round.
func (r *ActionResolver) Resolve(ctx *battleContext, req ActionRequest) (game.BattleAction, error) {
	actor := ctx.participant(req.ActorID)
	if actor == nil {
		return game.BattleAction{}, ValidationErrorf("participant %d is not in this battle", req.ActorID)
	}
	if !game.IsAlive(actor) {
		return game.BattleAction{}, ValidationErrorf("%s is dead and cannot act", actor.Name)
	}

	switch req.Type {
	case game.ActionAttack:
		return r.resolveAttack(ctx, actor, req)
	case game.ActionSkill:
		return r.resolveSkill(ctx, actor, req)
	case game.ActionItem:
		return r.resolveItem(ctx, actor, req)
	case game.ActionDefend:
		return r.resolveDefend(ctx, actor)
	case game.ActionFlee:
		return r.resolveFlee(ctx, actor)
	case game.ActionPass:
		return r.resolvePass(ctx, actor, "waits"), nil
	default:
		return game.BattleAction{}, ValidationErrorf("unknown action type %q", req.Type)
	}
}

// Validate checks a request without executing it. Used when staging player
// submissions so bad input is rejected at submit time, not at round end.
func (r *ActionResolver) Validate(b *game.Battle, req ActionRequest) error {
	actor := game.ParticipantByID(b, req.ActorID)
	if actor == nil {
		return ValidationErrorf("participant %d is not in this battle", req.ActorID)
	}
	if !game.IsAlive(actor) {
		return ValidationErrorf("%s is dead and cannot act", actor.Name)
	}

	switch req.Type {
	case game.ActionAttack:
		if req.TargetID != 0 {
			if err := checkOffensiveTarget(b, actor, req.TargetID); err != nil {
				return err
			}
		}
	case game.ActionSkill:
		skill, err := r.skillFor(actor, req.SkillID)
		if err != nil {
			return err
		}
		if actor.CurrentMp < skill.MpCost {
			return ValidationErrorf("%s needs %d MP for %s but has %d", actor.Name, skill.MpCost, skill.Name, actor.CurrentMp)
		}
		if left := actor.Cooldowns[skill.ID]; left > 0 {
			return ValidationErrorf("%s is on cooldown for %d more rounds", skill.Name, left)
		}
	case game.ActionItem:
		if _, err := r.consumableFor(actor, req.ItemID); err != nil {
			return err
		}
	case game.ActionFlee:
		if !b.Settings.AllowEscape {
			return RuleViolationf("escape is not allowed in this battle")
		}
	case game.ActionDefend, game.ActionPass:
	default:
		return ValidationErrorf("unknown action type %q", req.Type)
	}
	return nil
}

func (r *ActionResolver) resolveAttack(ctx *battleContext, actor *game.BattleParticipant, req ActionRequest) (game.BattleAction, error) {
	target, err := pickOffensiveTarget(ctx, actor, req.TargetID)
	if err != nil {
		return game.BattleAction{}, err
	}

	a := game.BattleAction{
		ActionType:    game.ActionAttack,
		Target:        game.TargetSingleEnemy,
		ParticipantID: actor.ID,
		TargetID:      target.ID,
	}

	hit := r.rollHit(ctx, actor, target, &a)
	if hit {
		dmg := r.dealDamage(ctx, actor, target, effectiveAttack(actor), game.DamagePhysical, game.ElementPhysical, &a)
		a.CombatLog = append(a.CombatLog, attackLine(actor, target, dmg, &a))
		if !game.IsAlive(target) {
			a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s is defeated", target.Name))
			ctx.recordKills(1)
		}
	}
	a.Result.Success = hit
	ctx.record(a)
	return a, nil
}

func (r *ActionResolver) resolveSkill(ctx *battleContext, actor *game.BattleParticipant, req ActionRequest) (game.BattleAction, error) {
	skill, err := r.skillFor(actor, req.SkillID)
	if err != nil {
		return game.BattleAction{}, err
	}
	if actor.CurrentMp < skill.MpCost {
		return game.BattleAction{}, ValidationErrorf("%s needs %d MP for %s but has %d", actor.Name, skill.MpCost, skill.Name, actor.CurrentMp)
	}
	if left := actor.Cooldowns[skill.ID]; left > 0 {
		return game.BattleAction{}, ValidationErrorf("%s is on cooldown for %d more rounds", skill.Name, left)
	}

	targets, err := r.skillTargets(ctx, actor, skill, req.TargetID)
	if err != nil {
		return game.BattleAction{}, err
	}

	// MP is spent and the cooldown armed before any dice roll; a miss still
	// costs the cast.
	actor.CurrentMp -= skill.MpCost
	if skill.Cooldown > 0 {
		if actor.Cooldowns == nil {
			actor.Cooldowns = map[uint]int{}
		}
		actor.Cooldowns[skill.ID] = skill.Cooldown
	}

	a := game.BattleAction{
		ActionType:    game.ActionSkill,
		Target:        skill.Target,
		ParticipantID: actor.ID,
		SkillID:       skill.ID,
	}
	if len(targets) == 1 {
		a.TargetID = targets[0].ID
	}
	a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s uses %s", actor.Name, skill.Name))

	anyHit := false
	for _, target := range targets {
		switch skill.DamageType {
		case game.DamageHealing:
			healed := r.applyHealing(actor, target, skill, &a)
			a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s restores %d HP to %s", skill.Name, healed, target.Name))
			r.applySkillEffects(ctx, actor, target, skill, &a)
			anyHit = true
		case game.DamageStatus:
			r.applySkillEffects(ctx, actor, target, skill, &a)
			anyHit = true
		default:
			if !r.rollHit(ctx, actor, target, &a) {
				continue
			}
			anyHit = true
			raw := r.skillPower(actor, skill)
			dmg := r.dealDamage(ctx, actor, target, raw, skill.DamageType, skill.Element, &a)
			a.CombatLog = append(a.CombatLog, skillHitLine(skill, target, dmg, &a))
			if game.IsAlive(target) {
				r.applySkillEffects(ctx, actor, target, skill, &a)
			} else {
				a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s is defeated", target.Name))
				ctx.recordKills(1)
			}
		}
	}
	a.Result.Success = anyHit
	ctx.record(a)
	return a, nil
}

func (r *ActionResolver) resolveItem(ctx *battleContext, actor *game.BattleParticipant, req ActionRequest) (game.BattleAction, error) {
	item, err := r.consumableFor(actor, req.ItemID)
	if err != nil {
		return game.BattleAction{}, err
	}

	target := actor
	if req.TargetID != 0 && req.TargetID != actor.ID {
		target = ctx.participant(req.TargetID)
		if target == nil {
			return game.BattleAction{}, ValidationErrorf("target %d is not in this battle", req.TargetID)
		}
		if !game.SameSide(actor, target) {
			return game.BattleAction{}, ValidationErrorf("items can only target allies")
		}
	}

	eff := item.ConsumableEffect
	if !game.IsAlive(target) && !eff.Revive {
		return game.BattleAction{}, ValidationErrorf("%s is dead and %s cannot revive", target.Name, item.Name)
	}

	decrementConsumable(actor, item.ID)

	a := game.BattleAction{
		ActionType:    game.ActionItem,
		Target:        game.TargetSingleAlly,
		ParticipantID: actor.ID,
		TargetID:      target.ID,
		ItemID:        item.ID,
	}
	a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s uses %s on %s", actor.Name, item.Name, target.Name))

	if eff.Revive && !game.IsAlive(target) {
		target.Status = game.StatusActive
		target.CurrentHp = 1
		a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s is revived", target.Name))
	}
	if eff.HealHp > 0 && game.IsAlive(target) {
		healed := eff.HealHp
		if target.CurrentHp+healed > target.MaxHp {
			healed = target.MaxHp - target.CurrentHp
		}
		target.CurrentHp += healed
		a.Healing += healed
		a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s recovers %d HP", target.Name, healed))
	}
	if eff.HealMp > 0 && game.IsAlive(target) {
		restored := eff.HealMp
		if target.CurrentMp+restored > target.MaxMp {
			restored = target.MaxMp - target.CurrentMp
		}
		target.CurrentMp += restored
		a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s recovers %d MP", target.Name, restored))
	}
	if buff := eff.TemporaryBuff; buff != nil && game.IsAlive(target) {
		r.attachEffect(ctx, actor, target, *buff, &a)
	}

	a.Result.Success = true
	a.Result.Effectiveness = game.EffectivenessNormal
	ctx.record(a)
	return a, nil
}

func (r *ActionResolver) resolveDefend(ctx *battleContext, actor *game.BattleParticipant) (game.BattleAction, error) {
	actor.TemporaryStats.DefenseMultiplier = 2
	r.effects.Apply(actor, game.StatusEffect{
		Type:      game.EffectDefendStance,
		Duration:  1,
		Source:    actor.Name,
		Exclusive: true,
	})

	a := game.BattleAction{
		ActionType:    game.ActionDefend,
		Target:        game.TargetSelf,
		ParticipantID: actor.ID,
		TargetID:      actor.ID,
		Result:        game.ActionResult{Success: true, Effectiveness: game.EffectivenessNormal},
		CombatLog:     []string{fmt.Sprintf("%s braces for impact", actor.Name)},
	}
	ctx.record(a)
	return a, nil
}

func (r *ActionResolver) resolveFlee(ctx *battleContext, actor *game.BattleParticipant) (game.BattleAction, error) {
	if !ctx.battle.Settings.AllowEscape {
		return game.BattleAction{}, RuleViolationf("escape is not allowed in this battle")
	}

	own := averageSpeed(ctx.alliesOf(actor))
	opp := averageSpeed(ctx.opponentsOf(actor))
	chance := 50 + (own-opp)*2
	if chance < minFleeChance {
		chance = minFleeChance
	}
	if chance > maxFleeChance {
		chance = maxFleeChance
	}

	a := game.BattleAction{
		ActionType:    game.ActionFlee,
		Target:        game.TargetSelf,
		ParticipantID: actor.ID,
	}
	if ctx.rng.Float64()*100 < chance {
		ctx.battle.Status = game.BattleFled
		ctx.battle.FledBy = actor.Type
		a.Result.Success = true
		a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s flees from battle", actor.Name))
	} else {
		a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s fails to escape", actor.Name))
	}
	ctx.record(a)
	return a, nil
}

func (r *ActionResolver) resolvePass(ctx *battleContext, actor *game.BattleParticipant, verb string) game.BattleAction {
	a := game.BattleAction{
		ActionType:    game.ActionPass,
		Target:        game.TargetSelf,
		ParticipantID: actor.ID,
		Result:        game.ActionResult{Success: true, Effectiveness: game.EffectivenessNormal},
		CombatLog:     []string{fmt.Sprintf("%s %s", actor.Name, verb)},
	}
	ctx.record(a)
	return a
}

// rollHit applies the accuracy-versus-evasion roll. A miss is recorded on
// the action's result and combat log.
func (r *ActionResolver) rollHit(ctx *battleContext, actor, target *game.BattleParticipant, a *game.BattleAction) bool {
	chance := effectiveAccuracy(actor) - effectiveEvasion(target)
	if chance < minHitChance {
		chance = minHitChance
	}
	if chance > maxHitChance {
		chance = maxHitChance
	}
	if ctx.rng.Float64()*100 >= chance {
		a.Result.Missed = true
		a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s misses %s", actor.Name, target.Name))
		return false
	}
	return true
}

// dealDamage runs the full damage pipeline against one target and returns
// the HP actually removed. Pipeline order: raw, defense reduction, elemental
// multiplier, defend-stance division, critical multiplier, floor at zero.
func (r *ActionResolver) dealDamage(ctx *battleContext, actor, target *game.BattleParticipant, raw int, dtype game.DamageType, element game.Element, a *game.BattleAction) int {
	if element == "" {
		element = game.ElementPhysical
	}

	mult, eff := elementalMultiplier(target, element)
	a.Result.Effectiveness = eff
	if eff == game.EffectivenessImmune {
		a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s is immune", target.Name))
		return 0
	}

	var mitigation float64
	switch dtype {
	case game.DamageMagical:
		res := float64(effectiveMagicResistance(target))
		mitigation = res / (res + 100)
	default:
		def := float64(effectiveDefense(target))
		mitigation = def / (def + 100)
	}

	dmg := float64(raw) * (1 - mitigation) * mult

	if target.TemporaryStats.DefenseMultiplier > 1 {
		dmg /= target.TemporaryStats.DefenseMultiplier
		a.Result.Blocked = true
	}

	if ctx.rng.Float64()*100 < effectiveCriticalRate(actor) {
		dmg *= effectiveCriticalDamage(actor)
		a.Result.Critical = true
	}

	out := int(math.Floor(dmg))
	if out < 0 {
		out = 0
	}
	if out > target.CurrentHp {
		out = target.CurrentHp
	}
	target.CurrentHp -= out
	if target.CurrentHp == 0 {
		target.Status = game.StatusDead
	}
	a.Damage += out
	return out
}

// skillPower computes the pre-mitigation damage of a skill cast.
func (r *ActionResolver) skillPower(actor *game.BattleParticipant, skill *game.Skill) int {
	s := skill.Scaling
	raw := 0
	if s.AttackPercent == 0 && s.MagicPowerPercent == 0 && s.HpPercent == 0 {
		if skill.DamageType == game.DamageMagical {
			raw = effectiveMagicPower(actor)
		} else {
			raw = effectiveAttack(actor)
		}
	} else {
		raw = effectiveAttack(actor)*s.AttackPercent/100 +
			effectiveMagicPower(actor)*s.MagicPowerPercent/100 +
			actor.MaxHp*s.HpPercent/100
	}
	power := skill.Power
	if power == 0 {
		power = 100
	}
	return raw * power / 100
}

// applyHealing resolves a healing cast, clamped to the target's maximum.
func (r *ActionResolver) applyHealing(actor, target *game.BattleParticipant, skill *game.Skill, a *game.BattleAction) int {
	if !game.IsAlive(target) && !skill.AllowDeadTarget {
		return 0
	}

	s := skill.Scaling
	amount := 0
	if s.MagicPowerPercent == 0 && s.HpPercent == 0 {
		amount = effectiveMagicPower(actor)
	} else {
		amount = effectiveMagicPower(actor)*s.MagicPowerPercent/100 + target.MaxHp*s.HpPercent/100
	}
	power := skill.Power
	if power == 0 {
		power = 100
	}
	amount = amount * power / 100

	if !game.IsAlive(target) {
		// A revive always restores at least 1 HP, so the target never ends
		// the cast active at zero.
		if amount < 1 {
			amount = 1
		}
		target.Status = game.StatusActive
		a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s is revived", target.Name))
	}

	if target.CurrentHp+amount > target.MaxHp {
		amount = target.MaxHp - target.CurrentHp
	}
	target.CurrentHp += amount
	a.Healing += amount
	a.Result.Effectiveness = game.EffectivenessNormal
	return amount
}

// applySkillEffects rolls for and attaches each of the skill's effects.
func (r *ActionResolver) applySkillEffects(ctx *battleContext, actor, target *game.BattleParticipant, skill *game.Skill, a *game.BattleAction) {
	for _, spec := range skill.Effects {
		r.attachEffect(ctx, actor, target, spec, a)
	}
}

func (r *ActionResolver) attachEffect(ctx *battleContext, actor, target *game.BattleParticipant, spec game.EffectSpec, a *game.BattleAction) {
	if spec.Chance > 0 && ctx.rng.Float64()*100 >= float64(spec.Chance) {
		return
	}
	r.effects.Apply(target, game.StatusEffect{
		Type:      spec.Type,
		Value:     spec.Value,
		Duration:  spec.Duration,
		Source:    actor.Name,
		Exclusive: spec.Exclusive,
	})
	a.Effects = append(a.Effects, game.AppliedEffect{
		Type:     spec.Type,
		Value:    spec.Value,
		Duration: spec.Duration,
		Target:   target.ID,
	})
	a.CombatLog = append(a.CombatLog, fmt.Sprintf("%s is affected by %s", target.Name, spec.Type))
}

// skillFor resolves a skill id against the catalog and the actor's known set.
func (r *ActionResolver) skillFor(actor *game.BattleParticipant, skillID uint) (*game.Skill, error) {
	if skillID == 0 {
		return nil, ValidationErrorf("skill action requires a skill id")
	}
	if !game.KnowsSkill(actor, skillID) {
		return nil, ValidationErrorf("%s does not know skill %d", actor.Name, skillID)
	}
	skill, err := r.catalog.Skill(skillID)
	if err != nil {
		return nil, ConfigErrorf("skill %d: %v", skillID, err)
	}
	if skill.Type == game.SkillPassive {
		return nil, ValidationErrorf("%s is a passive skill", skill.Name)
	}
	if skill.RequiredLevel > actor.Level {
		return nil, ValidationErrorf("%s requires level %d", skill.Name, skill.RequiredLevel)
	}
	return skill, nil
}

// consumableFor resolves an item id against the catalog and the actor's pack.
func (r *ActionResolver) consumableFor(actor *game.BattleParticipant, itemID uint) (*game.Item, error) {
	if itemID == 0 {
		return nil, ValidationErrorf("item action requires an item id")
	}
	if game.ConsumableQuantity(actor, itemID) < 1 {
		return nil, ValidationErrorf("%s has no item %d left", actor.Name, itemID)
	}
	item, err := r.catalog.Item(itemID)
	if err != nil {
		return nil, ConfigErrorf("item %d: %v", itemID, err)
	}
	if item.Type != game.ItemConsumable || item.ConsumableEffect == nil {
		return nil, ValidationErrorf("%s cannot be used in battle", item.Name)
	}
	return item, nil
}

// skillTargets expands a skill's target mode into concrete participants.
// Dead single targets retarget to a living one on the same side of the
// original pick so an earlier kill this round does not waste the cast.
func (r *ActionResolver) skillTargets(ctx *battleContext, actor *game.BattleParticipant, skill *game.Skill, targetID uint) ([]*game.BattleParticipant, error) {
	switch skill.Target {
	case game.TargetSelf:
		return []*game.BattleParticipant{actor}, nil
	case game.TargetAllEnemies:
		targets := ctx.opponentsOf(actor)
		if len(targets) == 0 {
			return nil, ValidationErrorf("no living targets")
		}
		return targets, nil
	case game.TargetAllAllies:
		return ctx.alliesOf(actor), nil
	case game.TargetSingleAlly:
		target := actor
		if targetID != 0 {
			target = ctx.participant(targetID)
			if target == nil {
				return nil, ValidationErrorf("target %d is not in this battle", targetID)
			}
			if !game.SameSide(actor, target) {
				return nil, ValidationErrorf("%s targets allies only", skill.Name)
			}
		}
		if !game.IsAlive(target) && !skill.AllowDeadTarget {
			return nil, ValidationErrorf("%s is dead", target.Name)
		}
		return []*game.BattleParticipant{target}, nil
	default:
		target, err := pickOffensiveTarget(ctx, actor, targetID)
		if err != nil {
			return nil, err
		}
		return []*game.BattleParticipant{target}, nil
	}
}

// pickOffensiveTarget validates or chooses a single enemy-side target,
// retargeting when the requested one died earlier in the round.
func pickOffensiveTarget(ctx *battleContext, actor *game.BattleParticipant, targetID uint) (*game.BattleParticipant, error) {
	opponents := ctx.opponentsOf(actor)
	if len(opponents) == 0 {
		return nil, ValidationErrorf("no living targets")
	}
	if targetID != 0 {
		target := ctx.participant(targetID)
		if target == nil {
			return nil, ValidationErrorf("target %d is not in this battle", targetID)
		}
		if game.SameSide(actor, target) {
			return nil, ValidationErrorf("cannot attack an ally")
		}
		if game.IsAlive(target) {
			return target, nil
		}
	}
	return opponents[0], nil
}

func checkOffensiveTarget(b *game.Battle, actor *game.BattleParticipant, targetID uint) error {
	target := game.ParticipantByID(b, targetID)
	if target == nil {
		return ValidationErrorf("target %d is not in this battle", targetID)
	}
	if game.SameSide(actor, target) {
		return ValidationErrorf("cannot attack an ally")
	}
	return nil
}

func decrementConsumable(p *game.BattleParticipant, itemID uint) {
	for i := range p.Consumables {
		if p.Consumables[i].ItemID == itemID {
			p.Consumables[i].Quantity--
			if p.Consumables[i].Quantity <= 0 {
				p.Consumables = append(p.Consumables[:i], p.Consumables[i+1:]...)
			}
			return
		}
	}
}

func averageSpeed(side []*game.BattleParticipant) float64 {
	if len(side) == 0 {
		return 0
	}
	total := 0
	for _, p := range side {
		total += effectiveSpeed(p)
	}
	return float64(total) / float64(len(side))
}

func attackLine(actor, target *game.BattleParticipant, dmg int, a *game.BattleAction) string {
	if a.Result.Critical {
		return fmt.Sprintf("%s lands a critical hit on %s for %d damage", actor.Name, target.Name, dmg)
	}
	return fmt.Sprintf("%s hits %s for %d damage", actor.Name, target.Name, dmg)
}

func skillHitLine(skill *game.Skill, target *game.BattleParticipant, dmg int, a *game.BattleAction) string {
	switch a.Result.Effectiveness {
	case game.EffectivenessSuper:
		return fmt.Sprintf("%s hits %s for %d damage, super effective", skill.Name, target.Name, dmg)
	case game.EffectivenessNotVery:
		return fmt.Sprintf("%s hits %s for %d damage, not very effective", skill.Name, target.Name, dmg)
	default:
		return fmt.Sprintf("%s hits %s for %d damage", skill.Name, target.Name, dmg)
	}
}

// elementalMultiplier combines a target's resistance and weakness to one
// element. Resistance at or above 100 is full immunity.
func elementalMultiplier(target *game.BattleParticipant, element game.Element) (float64, game.Effectiveness) {
	res := target.Resistances[element]
	weak := target.Weaknesses[element]

	if res >= 100 {
		return 0, game.EffectivenessImmune
	}
	mult := (1 - float64(res)/100) * (1 + float64(weak)/100)
	switch {
	case mult > 1:
		return mult, game.EffectivenessSuper
	case mult < 1:
		return mult, game.EffectivenessNotVery
	default:
		return mult, game.EffectivenessNormal
	}
}
