package engine

import (
	"math/rand"
	"time"

	"github.com/gloomdelve/server/internal/game"
)

// BattleStateMachine drives an encounter from pending to a terminal state.
// Rounds resolve atomically: every staged and AI action of a round applies
// in one call, in initiative order, or the round does not advance at all.
type BattleStateMachine struct {
	catalog   Catalog
	stats     StatResolver
	effects   StatusEffectManager
	scheduler InitiativeScheduler
	resolver  *ActionResolver
	decider   *AIDecisionEngine
}

func NewBattleStateMachine(catalog Catalog) *BattleStateMachine {
	return &BattleStateMachine{
		catalog:  catalog,
		resolver: NewActionResolver(catalog),
		decider:  NewAIDecisionEngine(catalog),
	}
}

// NewBattle assembles a pending battle from an immutable roster snapshot.
// Both sides must field at least one living combatant.
func (m *BattleStateMachine) NewBattle(roster []game.RosterEntry, btype game.BattleType, settings game.BattleSettings, seed int64) (*game.Battle, error) {
	b := &game.Battle{
		Status:   game.BattlePending,
		Type:     btype,
		Seed:     seed,
		Settings: settings,
	}

	characters, enemies := 0, 0
	for _, entry := range roster {
		p, err := m.stats.BuildParticipant(entry)
		if err != nil {
			return nil, err
		}
		if game.IsAlive(p) {
			switch p.Type {
			case game.ParticipantCharacter:
				characters++
			case game.ParticipantEnemy:
				enemies++
			}
		}
		b.Participants = append(b.Participants, *p)
	}
	if characters == 0 {
		return nil, ConfigErrorf("battle needs at least one living character")
	}
	if enemies == 0 {
		return nil, ConfigErrorf("battle needs at least one living enemy")
	}
	return b, nil
}

// Start moves a pending battle to active. Idempotent rejection: an already
// started or finished battle cannot start again.
func (m *BattleStateMachine) Start(b *game.Battle, now time.Time) error {
	if b.Status != game.BattlePending {
		return ValidationErrorf("battle is %s, not pending", b.Status)
	}
	b.Status = game.BattleActive
	b.CurrentTurn = 0
	b.StartedAt = &now
	return nil
}

// SubmitAction stages one player action for the upcoming round. Invalid
// submissions are rejected here with the battle untouched.
func (m *BattleStateMachine) SubmitAction(b *game.Battle, req ActionRequest) error {
	if game.Terminal(b.Status) {
		return ValidationErrorf("battle is over")
	}
	if b.Status != game.BattleActive {
		return ValidationErrorf("battle has not started")
	}

	actor := game.ParticipantByID(b, req.ActorID)
	if actor == nil {
		return ValidationErrorf("participant %d is not in this battle", req.ActorID)
	}
	if actor.Type != game.ParticipantCharacter {
		return ValidationErrorf("%s is not player controlled", actor.Name)
	}
	if !game.CanAct(actor) {
		return ValidationErrorf("%s cannot act this round", actor.Name)
	}
	for _, pending := range b.PendingActions {
		if pending.ParticipantID == req.ActorID {
			return ValidationErrorf("%s already has an action staged", actor.Name)
		}
	}
	if err := m.resolver.Validate(b, req); err != nil {
		return err
	}

	b.PendingActions = append(b.PendingActions, game.PendingAction{
		ParticipantID: req.ActorID,
		Type:          req.Type,
		SkillID:       req.SkillID,
		ItemID:        req.ItemID,
		TargetID:      req.TargetID,
	})
	return nil
}

// Ready reports whether every player-controlled participant that can act
// this round has an action staged.
func (m *BattleStateMachine) Ready(b *game.Battle) bool {
	for i := range b.Participants {
		p := &b.Participants[i]
		if p.Type != game.ParticipantCharacter || !game.CanAct(p) {
			continue
		}
		if !hasPending(b, p.ID) {
			return false
		}
	}
	return true
}

// FillMissingActions stages a pass for every eligible participant without a
// submission. Used when the action deadline expires.
func (m *BattleStateMachine) FillMissingActions(b *game.Battle) {
	for i := range b.Participants {
		p := &b.Participants[i]
		if p.Type != game.ParticipantCharacter || !game.CanAct(p) {
			continue
		}
		if !hasPending(b, p.ID) {
			b.PendingActions = append(b.PendingActions, game.PendingAction{
				ParticipantID: p.ID,
				Type:          game.ActionPass,
			})
		}
	}
}

// ResolveRound plays out one full round: boundary checks, initiative,
// per-slot effect ticks and actions, round-end cooldowns, termination and
// rewards. The returned turn is the immutable record of what happened.
func (m *BattleStateMachine) ResolveRound(b *game.Battle, now time.Time) (*game.BattleTurn, error) {
	if game.Terminal(b.Status) {
		return nil, ValidationErrorf("battle is over")
	}
	if b.Status != game.BattleActive {
		return nil, ValidationErrorf("battle has not started")
	}
	if !m.Ready(b) {
		return nil, ValidationErrorf("waiting for player actions")
	}

	number := b.CurrentTurn + 1

	// Turn and time limits end the battle at the round boundary, before any
	// new action resolves.
	if b.Settings.MaxTurns > 0 && number > b.Settings.MaxTurns {
		m.finish(b, game.BattleDefeat, now)
		return nil, nil
	}
	if b.Settings.TimeLimit > 0 && b.StartedAt != nil &&
		now.Sub(*b.StartedAt) > time.Duration(b.Settings.TimeLimit)*time.Second {
		m.finish(b, game.BattleDefeat, now)
		return nil, nil
	}

	rng := roundRNG(b.Seed, number)
	turn := &game.BattleTurn{
		BattleID: b.ID,
		Number:   number,
		Status:   game.TurnActive,
	}
	ctx := newBattleContext(b, turn, rng)
	turn.TurnOrder = m.scheduler.Order(b, rng)

	staged := map[uint]game.PendingAction{}
	for _, pending := range b.PendingActions {
		staged[pending.ParticipantID] = pending
	}

	for _, slot := range turn.TurnOrder {
		if game.Terminal(b.Status) {
			break
		}
		p := ctx.participant(slot.ParticipantID)
		if p == nil || !game.IsAlive(p) {
			continue
		}

		m.tickParticipant(ctx, p)
		if !game.IsAlive(p) {
			continue
		}

		switch {
		case !game.CanAct(p):
			m.resolver.resolvePass(ctx, p, "is unable to act")
			continue
		case p.Status == game.StatusConfused && rng.Float64() < 0.5:
			m.resolver.resolvePass(ctx, p, "flails in confusion")
			continue
		}

		req := m.requestFor(ctx, p, staged)
		if _, err := m.resolver.Resolve(ctx, req); err != nil {
			// A staged action can go stale mid-round, for example when the
			// last valid target died to an earlier slot. Degrade to a pass
			// rather than abort the whole round.
			m.resolver.resolvePass(ctx, p, "hesitates")
		}

		m.evaluateOutcome(b)
	}

	if !game.Terminal(b.Status) {
		m.evaluateOutcome(b)
	}

	for i := range b.Participants {
		p := &b.Participants[i]
		if game.IsAlive(p) {
			m.effects.TickCooldowns(p)
			m.effects.ClearExpiredStance(p)
		}
	}

	turn.Status = game.TurnCompleted
	b.Turns = append(b.Turns, *turn)
	b.CurrentTurn = number
	b.PendingActions = nil

	if game.Terminal(b.Status) {
		if b.Status == game.BattleVictory {
			b.Rewards = m.computeRewards(b, rng)
		}
		ended := now
		b.EndedAt = &ended
	}
	return &b.Turns[len(b.Turns)-1], nil
}

// tickParticipant runs the actor's start-of-turn effect resolution and folds
// the results into the round record.
func (m *BattleStateMachine) tickParticipant(ctx *battleContext, p *game.BattleParticipant) {
	damage, healing, lines := m.effects.TickTurnStart(p)
	if damage == 0 && healing == 0 && len(lines) == 0 {
		return
	}
	ctx.turn.Summary.TotalDamage += damage
	ctx.turn.Summary.TotalHealing += healing
	if !game.IsAlive(p) {
		ctx.recordKills(1)
	}
	if len(lines) > 0 {
		// Effect ticks get their own entry in the round record so the log
		// stays a complete account.
		ctx.turn.Actions = append(ctx.turn.Actions, game.BattleAction{
			BattleID:      ctx.battle.ID,
			ActionType:    game.ActionPass,
			Target:        game.TargetSelf,
			ParticipantID: p.ID,
			ActionOrder:   len(ctx.turn.Actions),
			Damage:        damage,
			Healing:       healing,
			Result:        game.ActionResult{Success: true, Effectiveness: game.EffectivenessNormal},
			CombatLog:     lines,
		})
	}
}

func (m *BattleStateMachine) requestFor(ctx *battleContext, p *game.BattleParticipant, staged map[uint]game.PendingAction) ActionRequest {
	if p.Type == game.ParticipantEnemy {
		return m.decider.Decide(ctx, p)
	}
	pending, ok := staged[p.ID]
	if !ok {
		return ActionRequest{ActorID: p.ID, Type: game.ActionPass}
	}
	return ActionRequest{
		ActorID:  pending.ParticipantID,
		Type:     pending.Type,
		SkillID:  pending.SkillID,
		ItemID:   pending.ItemID,
		TargetID: pending.TargetID,
	}
}

// evaluateOutcome flips the battle to victory or defeat once one side has no
// living combatants left.
func (m *BattleStateMachine) evaluateOutcome(b *game.Battle) {
	if game.Terminal(b.Status) {
		return
	}
	if len(game.LivingOfType(b, game.ParticipantEnemy)) == 0 {
		b.Status = game.BattleVictory
		return
	}
	if len(game.LivingOfType(b, game.ParticipantCharacter)) == 0 {
		b.Status = game.BattleDefeat
	}
}

func (m *BattleStateMachine) finish(b *game.Battle, status game.BattleStatus, now time.Time) {
	b.Status = status
	b.PendingActions = nil
	ended := now
	b.EndedAt = &ended
}

// computeRewards sums experience, gold and drop rolls over the defeated
// enemy side. Drop quantities roll uniformly inside the configured range.
func (m *BattleStateMachine) computeRewards(b *game.Battle, rng *rand.Rand) game.BattleRewards {
	var out game.BattleRewards
	for i := range b.Participants {
		p := &b.Participants[i]
		if p.Type != game.ParticipantEnemy || game.IsAlive(p) {
			continue
		}
		out.Experience += p.ExperienceReward
		out.Gold += p.GoldReward
		for _, drop := range p.Drops {
			if drop.Chance < 100 && rng.Float64()*100 >= float64(drop.Chance) {
				continue
			}
			qty := drop.MinQuantity
			if drop.MaxQuantity > drop.MinQuantity {
				qty += rng.Intn(drop.MaxQuantity - drop.MinQuantity + 1)
			}
			if qty < 1 {
				qty = 1
			}
			out.Items = addItemQuantity(out.Items, drop.ItemID, qty)
		}
	}
	return out
}

func addItemQuantity(items []game.ItemQuantity, itemID uint, qty int) []game.ItemQuantity {
	for i := range items {
		if items[i].ItemID == itemID {
			items[i].Quantity += qty
			return items
		}
	}
	return append(items, game.ItemQuantity{ItemID: itemID, Quantity: qty})
}

func hasPending(b *game.Battle, participantID uint) bool {
	for _, pending := range b.PendingActions {
		if pending.ParticipantID == participantID {
			return true
		}
	}
	return false
}
