package engine

import (
	"math/rand"
	"sort"

	"github.com/gloomdelve/server/internal/game"
)

// InitiativeScheduler orders one round. Initiative is effective speed plus
// a 0-5 jitter roll; the order is recomputed every round so speed buffs and
// debuffs take hold immediately.
type InitiativeScheduler struct{}

const initiativeJitter = 5.0

// Order computes the round's full turn order. Every living participant is
// included; ones that cannot act are recorded as skipped when their slot
// comes up, which keeps the order a complete account of the round.
func (InitiativeScheduler) Order(b *game.Battle, rng *rand.Rand) []game.TurnSlot {
	// Jitter is assigned in ascending participant-id order so the same seed
	// always hands the same roll to the same combatant.
	living := make([]*game.BattleParticipant, 0, len(b.Participants))
	for i := range b.Participants {
		if game.IsAlive(&b.Participants[i]) {
			living = append(living, &b.Participants[i])
		}
	}
	sort.Slice(living, func(i, j int) bool { return living[i].ID < living[j].ID })
	for _, p := range living {
		p.Initiative = float64(effectiveSpeed(p)) + rng.Float64()*initiativeJitter
	}

	sort.Slice(living, func(i, j int) bool {
		a, c := living[i], living[j]
		if a.Initiative != c.Initiative {
			return a.Initiative > c.Initiative
		}
		if a.Position != c.Position {
			return a.Position < c.Position
		}
		return a.ID < c.ID
	})

	slots := make([]game.TurnSlot, len(living))
	for i, p := range living {
		p.TurnOrder = i
		slots[i] = game.TurnSlot{ParticipantID: p.ID, Initiative: p.Initiative, Order: i}
	}
	return slots
}
