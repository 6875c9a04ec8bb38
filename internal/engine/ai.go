package engine

import (
	"github.com/gloomdelve/server/internal/game"
)

// AIDecisionEngine picks actions for computer-controlled participants. It is
// deterministic: the same battle state and round RNG always yield the same
// decision.
type AIDecisionEngine struct {
	catalog Catalog
}

func NewAIDecisionEngine(catalog Catalog) *AIDecisionEngine {
	return &AIDecisionEngine{catalog: catalog}
}

// Decide produces the request an AI participant acts on this round.
func (d *AIDecisionEngine) Decide(ctx *battleContext, actor *game.BattleParticipant) ActionRequest {
	behavior := actor.AI
	if behavior == nil {
		behavior = &game.AIBehavior{TargetPriority: game.PriorityRandom, SkillUsage: game.UsageBalanced}
	}

	opponents := ctx.opponentsOf(actor)
	if len(opponents) == 0 {
		return ActionRequest{ActorID: actor.ID, Type: game.ActionPass}
	}

	// Low-HP participants run when they can.
	if behavior.FleeThreshold > 0 && ctx.battle.Settings.AllowEscape {
		ratio := float64(actor.CurrentHp) / float64(actor.MaxHp)
		if ratio <= behavior.FleeThreshold {
			return ActionRequest{ActorID: actor.ID, Type: game.ActionFlee}
		}
	}

	target := d.pickTarget(ctx, actor, behavior, opponents)

	if skill := d.pickSkill(ctx, actor, behavior); skill != nil {
		return ActionRequest{ActorID: actor.ID, Type: game.ActionSkill, SkillID: skill.ID, TargetID: target.ID}
	}
	return ActionRequest{ActorID: actor.ID, Type: game.ActionAttack, TargetID: target.ID}
}

// pickSkill decides whether to cast and which usable skill to pick. The
// usage policy sets the cast probability and the selection rule; a policy
// never overrides MP or cooldown gates.
func (d *AIDecisionEngine) pickSkill(ctx *battleContext, actor *game.BattleParticipant, behavior *game.AIBehavior) *game.Skill {
	var usable []*game.Skill
	for _, id := range actor.SkillIDs {
		skill, err := d.catalog.Skill(id)
		if err != nil || skill.Type == game.SkillPassive {
			continue
		}
		if skill.MpCost > actor.CurrentMp || actor.Cooldowns[id] > 0 {
			continue
		}
		if skill.RequiredLevel > actor.Level {
			continue
		}
		if skill.DamageType == game.DamageHealing {
			continue
		}
		usable = append(usable, skill)
	}
	if len(usable) == 0 {
		return nil
	}

	var chance float64
	switch behavior.SkillUsage {
	case game.UsageConservative:
		chance = 0.25
	case game.UsageAggressive:
		chance = 0.75
	default:
		chance = 0.5
	}
	if ctx.rng.Float64() >= chance {
		return nil
	}

	switch behavior.SkillUsage {
	case game.UsageAggressive:
		best := usable[0]
		for _, s := range usable[1:] {
			if s.Power > best.Power || (s.Power == best.Power && s.ID < best.ID) {
				best = s
			}
		}
		return best
	case game.UsageConservative:
		best := usable[0]
		for _, s := range usable[1:] {
			if s.MpCost < best.MpCost || (s.MpCost == best.MpCost && s.ID < best.ID) {
				best = s
			}
		}
		return best
	default:
		return usable[ctx.rng.Intn(len(usable))]
	}
}

// pickTarget applies the targeting priority. Coordinated groups share one
// focus target per round; the first coordinated attacker marks it and the
// rest pile on until it drops.
func (d *AIDecisionEngine) pickTarget(ctx *battleContext, actor *game.BattleParticipant, behavior *game.AIBehavior, opponents []*game.BattleParticipant) *game.BattleParticipant {
	if behavior.Coordination > 0 && ctx.focusTarget != 0 {
		if marked := ctx.participant(ctx.focusTarget); marked != nil && game.IsAlive(marked) && !game.SameSide(actor, marked) {
			return marked
		}
	}

	target := opponents[0]
	switch behavior.TargetPriority {
	case game.PriorityWeakest, game.PriorityLowestHP:
		for _, p := range opponents[1:] {
			if p.CurrentHp < target.CurrentHp || (p.CurrentHp == target.CurrentHp && p.ID < target.ID) {
				target = p
			}
		}
	case game.PriorityStrongest, game.PriorityHighestDamage:
		for _, p := range opponents[1:] {
			if effectiveAttack(p) > effectiveAttack(target) ||
				(effectiveAttack(p) == effectiveAttack(target) && p.ID < target.ID) {
				target = p
			}
		}
	default:
		target = opponents[ctx.rng.Intn(len(opponents))]
	}

	if behavior.Coordination > 0 && ctx.focusTarget == 0 {
		ctx.focusTarget = target.ID
	}
	return target
}
