package engine

import (
	"github.com/gloomdelve/server/internal/game"
)

// Catalog gives the engine read-only access to skill and item definitions.
// Implementations cache per battle; the engine never re-fetches mid-battle.
type Catalog interface {
	Skill(id uint) (*game.Skill, error)
	Item(id uint) (*game.Item, error)
}

// StatResolver derives a participant's effective stats from its template
// base values, per-level growth, equipment bonuses and active temporary
// modifiers. Per stat:
//
//	total = (base + growth*(level-1) + equipment + temporary) * multiplier
//
// clamped to >= 0; HP/MP are additionally clamped to the participant's max.
type StatResolver struct{}

// Resolve computes the effective-stat bundle for a roster entry at battle
// start. Equipment bonuses are summed from the entry's equipped items.
func (StatResolver) Resolve(entry game.RosterEntry) (game.StatBlock, error) {
	if entry.Level < 1 {
		return game.StatBlock{}, ConfigErrorf("%s: level %d is below 1", entry.Name, entry.Level)
	}
	if entry.Level > 1 && entry.Growth.Empty() {
		return game.StatBlock{}, ConfigErrorf("%s: template has no stat growth data", entry.Name)
	}

	levels := entry.Level - 1
	out := game.StatBlock{
		Hp:              entry.Base.Hp + entry.Growth.HpPerLevel*levels,
		Mp:              entry.Base.Mp + entry.Growth.MpPerLevel*levels,
		Attack:          entry.Base.Attack + entry.Growth.AttackPerLevel*levels,
		Defense:         entry.Base.Defense + entry.Growth.DefensePerLevel*levels,
		Speed:           entry.Base.Speed + entry.Growth.SpeedPerLevel*levels,
		MagicPower:      entry.Base.MagicPower,
		MagicResistance: entry.Base.MagicResistance,
		CriticalRate:    entry.Base.CriticalRate,
		CriticalDamage:  entry.Base.CriticalDamage,
		Evasion:         entry.Base.Evasion,
		Accuracy:        entry.Base.Accuracy,
	}

	for i := range entry.Equipment {
		s := entry.Equipment[i].Stats
		out.Hp += s.Hp
		out.Mp += s.Mp
		out.Attack += s.Attack
		out.Defense += s.Defense
		out.Speed += s.Speed
		out.MagicPower += s.MagicPower
		out.MagicResistance += s.MagicResistance
		out.CriticalRate += s.CriticalRate
		out.CriticalDamage += s.CriticalDamage
		out.Evasion += s.Evasion
		out.Accuracy += s.Accuracy
	}

	// Combat-roll baselines apply when neither template nor gear set them.
	if out.Accuracy == 0 {
		out.Accuracy = baseAccuracy
	}
	if out.Evasion == 0 {
		out.Evasion = baseEvasion
	}
	if out.CriticalRate == 0 {
		out.CriticalRate = baseCriticalRate
	}
	if out.CriticalDamage == 0 {
		out.CriticalDamage = baseCriticalDamage
	}

	clampNonNegative(&out)
	return out, nil
}

// BuildParticipant assembles the mutable battle participant for one roster
// entry: the snapshot-assembly step performed once at battle start.
func (r StatResolver) BuildParticipant(entry game.RosterEntry) (*game.BattleParticipant, error) {
	stats, err := r.Resolve(entry)
	if err != nil {
		return nil, err
	}

	hp := entry.CurrentHp
	if hp < 0 || hp > stats.Hp {
		hp = stats.Hp
	}
	mp := entry.CurrentMp
	if mp < 0 || mp > stats.Mp {
		mp = stats.Mp
	}

	status := game.StatusActive
	if hp == 0 {
		status = game.StatusDead
	}

	p := &game.BattleParticipant{
		Type:             entry.Type,
		Status:           status,
		Name:             entry.Name,
		RefID:            entry.RefID,
		Level:            entry.Level,
		Position:         entry.Position,
		CurrentHp:        hp,
		CurrentMp:        mp,
		MaxHp:            stats.Hp,
		MaxMp:            stats.Mp,
		Stats:            stats,
		Cooldowns:        map[uint]int{},
		SkillIDs:         append([]uint(nil), entry.SkillIDs...),
		Resistances:      entry.Resistances,
		Weaknesses:       entry.Weaknesses,
		AI:               entry.AI,
		ExperienceReward: entry.ExperienceReward,
		GoldReward:       entry.GoldReward,
		Drops:            entry.Drops,
	}
	for _, c := range entry.Consumables {
		if c.Quantity > 0 {
			p.Consumables = append(p.Consumables, c)
		}
	}
	return p, nil
}

func clampNonNegative(s *game.StatBlock) {
	ints := []*int{&s.Hp, &s.Mp, &s.Attack, &s.Defense, &s.Speed, &s.MagicPower, &s.MagicResistance}
	for _, v := range ints {
		if *v < 0 {
			*v = 0
		}
	}
	floats := []*float64{&s.CriticalRate, &s.CriticalDamage, &s.Evasion, &s.Accuracy}
	for _, v := range floats {
		if *v < 0 {
			*v = 0
		}
	}
}

// Combat-roll baselines. Exact numbers are data, not contract; these apply
// only when the catalog leaves the stat unset.
const (
	baseAccuracy       = 90.0
	baseEvasion        = 5.0
	baseCriticalRate   = 5.0
	baseCriticalDamage = 1.5
)

// effectiveAttack and friends layer the temporary additive modifiers and
// status-effect contributions on top of the resolved stats. Results never
// go below zero.
func effectiveAttack(p *game.BattleParticipant) int {
	v := p.Stats.Attack + p.TemporaryStats.Attack + effectModifiers(p).Attack
	if v < 0 {
		return 0
	}
	return v
}

func effectiveDefense(p *game.BattleParticipant) int {
	v := p.Stats.Defense + p.TemporaryStats.Defense + effectModifiers(p).Defense
	if v < 0 {
		return 0
	}
	return v
}

func effectiveSpeed(p *game.BattleParticipant) int {
	v := p.Stats.Speed + p.TemporaryStats.Speed + effectModifiers(p).Speed
	if v < 0 {
		return 0
	}
	return v
}

func effectiveMagicPower(p *game.BattleParticipant) int {
	v := p.Stats.MagicPower + p.TemporaryStats.MagicPower + effectModifiers(p).MagicPower
	if v < 0 {
		return 0
	}
	return v
}

func effectiveMagicResistance(p *game.BattleParticipant) int {
	v := p.Stats.MagicResistance + p.TemporaryStats.MagicResistance + effectModifiers(p).MagicResistance
	if v < 0 {
		return 0
	}
	return v
}

func effectiveAccuracy(p *game.BattleParticipant) float64 {
	v := p.Stats.Accuracy + p.TemporaryStats.Accuracy
	if v < 0 {
		return 0
	}
	return v
}

func effectiveEvasion(p *game.BattleParticipant) float64 {
	v := p.Stats.Evasion + p.TemporaryStats.Evasion + effectModifiers(p).Evasion
	if v < 0 {
		return 0
	}
	return v
}

func effectiveCriticalRate(p *game.BattleParticipant) float64 {
	v := p.Stats.CriticalRate + p.TemporaryStats.CriticalRate + effectModifiers(p).CriticalRate
	if v < 0 {
		return 0
	}
	return v
}

func effectiveCriticalDamage(p *game.BattleParticipant) float64 {
	if p.Stats.CriticalDamage <= 0 {
		return baseCriticalDamage
	}
	return p.Stats.CriticalDamage
}
