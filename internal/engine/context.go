package engine

import (
	"math/rand"

	"github.com/gloomdelve/server/internal/game"
)

// battleContext carries the per-round working state shared by the action
// resolver, the AI and the state machine while one round plays out.
type battleContext struct {
	battle *game.Battle
	rng    *rand.Rand
	turn   *game.BattleTurn

	// focusTarget is the shared mark for coordinated enemy groups. The first
	// coordinated attacker of the round sets it; later ones pile on while the
	// mark is still alive.
	focusTarget uint
}

func newBattleContext(b *game.Battle, turn *game.BattleTurn, rng *rand.Rand) *battleContext {
	return &battleContext{battle: b, rng: rng, turn: turn}
}

func (c *battleContext) participant(id uint) *game.BattleParticipant {
	return game.ParticipantByID(c.battle, id)
}

// record appends a resolved action to the round and folds its numbers into
// the round summary.
func (c *battleContext) record(a game.BattleAction) {
	a.BattleID = c.battle.ID
	a.ActionOrder = len(c.turn.Actions)
	c.turn.Actions = append(c.turn.Actions, a)

	c.turn.Summary.TotalDamage += a.Damage
	c.turn.Summary.TotalHealing += a.Healing
	c.turn.Summary.EffectsApplied += len(a.Effects)
}

// recordKills bumps the round's kill counter.
func (c *battleContext) recordKills(n int) {
	c.turn.Summary.Kills += n
}

// opponentsOf returns the living participants on the other side.
func (c *battleContext) opponentsOf(p *game.BattleParticipant) []*game.BattleParticipant {
	if p.Type == game.ParticipantCharacter {
		return game.LivingOfType(c.battle, game.ParticipantEnemy)
	}
	return game.LivingOfType(c.battle, game.ParticipantCharacter)
}

// alliesOf returns the living participants on the actor's own side.
func (c *battleContext) alliesOf(p *game.BattleParticipant) []*game.BattleParticipant {
	return game.LivingOfType(c.battle, p.Type)
}
