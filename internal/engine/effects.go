package engine

import (
	"fmt"

	"github.com/gloomdelve/server/internal/game"
)

// StatusEffectManager owns the lifecycle of timed effects and skill
// cooldowns attached to a participant: apply, tick, expire.
type StatusEffectManager struct{}

// Apply attaches an effect instance. Instances of the same type from
// different sources stack independently unless the effect is exclusive,
// in which case the newest instance replaces all previous ones.
func (StatusEffectManager) Apply(p *game.BattleParticipant, eff game.StatusEffect) {
	if eff.Exclusive {
		kept := p.StatusEffects[:0]
		for _, e := range p.StatusEffects {
			if e.Type != eff.Type {
				kept = append(kept, e)
			}
		}
		p.StatusEffects = kept
	}
	p.StatusEffects = append(p.StatusEffects, eff)
	refreshStatus(p)
}

// TickTurnStart resolves damage/healing-over-time effects for the owner,
// then decrements every effect's duration and removes the expired ones.
// It is called at the start of the owner's turn. Returned lines feed the
// combat log; net damage and healing feed the round summary.
func (StatusEffectManager) TickTurnStart(p *game.BattleParticipant) (damage, healing int, lines []string) {
	for i := range p.StatusEffects {
		e := &p.StatusEffects[i]
		switch e.Type {
		case game.EffectPoison:
			dealt := e.Value
			if dealt > p.CurrentHp {
				dealt = p.CurrentHp
			}
			p.CurrentHp -= dealt
			damage += dealt
			lines = append(lines, fmt.Sprintf("%s takes %d poison damage", p.Name, dealt))
			if p.CurrentHp == 0 {
				p.Status = game.StatusDead
				lines = append(lines, fmt.Sprintf("%s succumbs to poison", p.Name))
			}
		case game.EffectRegeneration:
			healed := e.Value
			if p.CurrentHp+healed > p.MaxHp {
				healed = p.MaxHp - p.CurrentHp
			}
			if healed > 0 && game.IsAlive(p) {
				p.CurrentHp += healed
				healing += healed
				lines = append(lines, fmt.Sprintf("%s regenerates %d HP", p.Name, healed))
			}
		}
	}

	kept := p.StatusEffects[:0]
	for _, e := range p.StatusEffects {
		e.Duration--
		if e.Duration > 0 {
			kept = append(kept, e)
		}
	}
	p.StatusEffects = kept
	refreshStatus(p)
	return damage, healing, lines
}

// TickCooldowns decrements every skill cooldown once. Called once per full
// round regardless of whether the owner acted.
func (StatusEffectManager) TickCooldowns(p *game.BattleParticipant) {
	for id, left := range p.Cooldowns {
		if left <= 1 {
			delete(p.Cooldowns, id)
		} else {
			p.Cooldowns[id] = left - 1
		}
	}
}

// ClearExpiredStance drops the defend-stance multiplier once its marker
// effect has expired.
func (StatusEffectManager) ClearExpiredStance(p *game.BattleParticipant) {
	if !game.HasEffect(p, game.EffectDefendStance) {
		p.TemporaryStats.DefenseMultiplier = 0
	}
}

// refreshStatus derives the participant status from HP and active effects.
// Dead wins over everything; control effects outrank poison.
func refreshStatus(p *game.BattleParticipant) {
	if p.CurrentHp <= 0 {
		p.CurrentHp = 0
		p.Status = game.StatusDead
		return
	}
	switch {
	case game.HasEffect(p, game.EffectStun):
		p.Status = game.StatusStunned
	case game.HasEffect(p, game.EffectSleep):
		p.Status = game.StatusSleeping
	case game.HasEffect(p, game.EffectConfuse):
		p.Status = game.StatusConfused
	case game.HasEffect(p, game.EffectPoison):
		p.Status = game.StatusPoisoned
	default:
		p.Status = game.StatusActive
	}
}

// effectModifiers folds the participant's active buffs and debuffs into a
// single additive modifier bundle.
func effectModifiers(p *game.BattleParticipant) game.StatModifiers {
	var m game.StatModifiers
	for i := range p.StatusEffects {
		e := &p.StatusEffects[i]
		switch e.Type {
		case game.EffectAttackBoost:
			m.Attack += e.Value
		case game.EffectAttackDebuff:
			m.Attack -= e.Value
		case game.EffectDefenseBoost:
			m.Defense += e.Value
		case game.EffectDefenseDebuff:
			m.Defense -= e.Value
		case game.EffectSpeedBoost:
			m.Speed += e.Value
		case game.EffectSpeedDebuff:
			m.Speed -= e.Value
		case game.EffectEvasionBoost:
			m.Evasion += float64(e.Value)
		case game.EffectCritBoost:
			m.CriticalRate += float64(e.Value)
		case game.EffectMagicResist:
			m.MagicResistance += e.Value
		}
	}
	return m
}
