package game

// Helper predicates over the battle data model. Kept as free functions so
// the entities stay plain data.

// IsAlive reports whether a participant can still be part of the fight.
func IsAlive(p *BattleParticipant) bool {
	return p.Status != StatusDead && p.CurrentHp > 0
}

// CanAct reports whether a participant takes its turn this round. Confused
// participants may still fail at resolution time; that roll happens in the
// state machine, not here.
func CanAct(p *BattleParticipant) bool {
	return IsAlive(p) && p.Status != StatusStunned && p.Status != StatusSleeping
}

// SameSide reports whether two participants fight on the same side.
func SameSide(a, b *BattleParticipant) bool {
	return a.Type == b.Type
}

// ParticipantByID finds a participant inside its owning battle.
func ParticipantByID(b *Battle, id uint) *BattleParticipant {
	for i := range b.Participants {
		if b.Participants[i].ID == id {
			return &b.Participants[i]
		}
	}
	return nil
}

// LivingOfType returns the living participants of one side, in roster order.
func LivingOfType(b *Battle, t ParticipantType) []*BattleParticipant {
	var out []*BattleParticipant
	for i := range b.Participants {
		if b.Participants[i].Type == t && IsAlive(&b.Participants[i]) {
			out = append(out, &b.Participants[i])
		}
	}
	return out
}

// Terminal reports whether a battle accepts no further turns.
func Terminal(s BattleStatus) bool {
	switch s {
	case BattleVictory, BattleDefeat, BattleFled:
		return true
	}
	return false
}

// RunTerminal reports whether a dungeon run has reached a final state.
func RunTerminal(s RunStatus) bool {
	switch s {
	case RunCompleted, RunFailed, RunAbandoned:
		return true
	}
	return false
}

// HasEffect reports whether any instance of the given effect type is active.
func HasEffect(p *BattleParticipant, t StatusEffectType) bool {
	for i := range p.StatusEffects {
		if p.StatusEffects[i].Type == t {
			return true
		}
	}
	return false
}

// ConsumableQuantity returns how many units of an item the participant
// still carries.
func ConsumableQuantity(p *BattleParticipant, itemID uint) int {
	for i := range p.Consumables {
		if p.Consumables[i].ItemID == itemID {
			return p.Consumables[i].Quantity
		}
	}
	return 0
}

// KnowsSkill reports whether the skill id is in the participant's list.
func KnowsSkill(p *BattleParticipant, skillID uint) bool {
	for _, id := range p.SkillIDs {
		if id == skillID {
			return true
		}
	}
	return false
}
