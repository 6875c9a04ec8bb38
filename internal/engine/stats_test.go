package engine

import (
	"errors"
	"testing"

	"github.com/gloomdelve/server/internal/game"
)

func warriorEntry(level int) game.RosterEntry {
	return game.RosterEntry{
		Type:     game.ParticipantCharacter,
		RefID:    1,
		Name:     "Goblin Fighter",
		Level:    level,
		Base:     game.StatBlock{Hp: 100, Mp: 30, Attack: 14, Defense: 12, Speed: 10},
		Growth:   game.StatGrowth{HpPerLevel: 10, MpPerLevel: 3, AttackPerLevel: 2, DefensePerLevel: 2, SpeedPerLevel: 1},
		CurrentHp: -1,
		CurrentMp: -1,
	}
}

func TestResolveAppliesGrowthAndEquipment(t *testing.T) {
	entry := warriorEntry(3)
	entry.Equipment = []game.Item{
		{ID: 10, Name: "Iron Sword", Type: game.ItemWeapon, Stats: game.StatBlock{Attack: 5}},
		{ID: 11, Name: "Leather Armor", Type: game.ItemArmor, Stats: game.StatBlock{Defense: 4}},
	}

	stats, err := (StatResolver{}).Resolve(entry)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if stats.Hp != 120 {
		t.Errorf("hp = %d, want 120", stats.Hp)
	}
	if stats.Attack != 23 {
		t.Errorf("attack = %d, want 23 (14 + 2*2 + 5)", stats.Attack)
	}
	if stats.Defense != 20 {
		t.Errorf("defense = %d, want 20 (12 + 2*2 + 4)", stats.Defense)
	}
	if stats.Speed != 12 {
		t.Errorf("speed = %d, want 12", stats.Speed)
	}
}

func TestResolveBaselines(t *testing.T) {
	stats, err := (StatResolver{}).Resolve(warriorEntry(1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if stats.Accuracy != baseAccuracy {
		t.Errorf("accuracy = %v, want baseline %v", stats.Accuracy, baseAccuracy)
	}
	if stats.Evasion != baseEvasion {
		t.Errorf("evasion = %v, want baseline %v", stats.Evasion, baseEvasion)
	}
	if stats.CriticalRate != baseCriticalRate {
		t.Errorf("critical rate = %v, want baseline %v", stats.CriticalRate, baseCriticalRate)
	}
	if stats.CriticalDamage != baseCriticalDamage {
		t.Errorf("critical damage = %v, want baseline %v", stats.CriticalDamage, baseCriticalDamage)
	}
}

func TestResolveRejectsBadTemplates(t *testing.T) {
	cases := []struct {
		name  string
		entry game.RosterEntry
	}{
		{"level below one", warriorEntry(0)},
		{"no growth above level one", func() game.RosterEntry {
			e := warriorEntry(2)
			e.Growth = game.StatGrowth{}
			return e
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (StatResolver{}).Resolve(tc.entry)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want ConfigError", err)
			}
		})
	}
}

func TestBuildParticipantCarriesCurrentHp(t *testing.T) {
	entry := warriorEntry(1)
	entry.CurrentHp = 40
	entry.CurrentMp = 5

	p, err := (StatResolver{}).BuildParticipant(entry)
	if err != nil {
		t.Fatalf("BuildParticipant: %v", err)
	}
	if p.CurrentHp != 40 || p.MaxHp != 100 {
		t.Errorf("hp = %d/%d, want 40/100", p.CurrentHp, p.MaxHp)
	}
	if p.CurrentMp != 5 || p.MaxMp != 30 {
		t.Errorf("mp = %d/%d, want 5/30", p.CurrentMp, p.MaxMp)
	}
	if p.Status != game.StatusActive {
		t.Errorf("status = %s, want active", p.Status)
	}
}

func TestBuildParticipantFullWhenNegative(t *testing.T) {
	p, err := (StatResolver{}).BuildParticipant(warriorEntry(1))
	if err != nil {
		t.Fatalf("BuildParticipant: %v", err)
	}
	if p.CurrentHp != 100 || p.CurrentMp != 30 {
		t.Errorf("hp/mp = %d/%d, want full 100/30", p.CurrentHp, p.CurrentMp)
	}
}

func TestBuildParticipantDeadAtZeroHp(t *testing.T) {
	entry := warriorEntry(1)
	entry.CurrentHp = 0
	p, err := (StatResolver{}).BuildParticipant(entry)
	if err != nil {
		t.Fatalf("BuildParticipant: %v", err)
	}
	if p.Status != game.StatusDead {
		t.Errorf("status = %s, want dead", p.Status)
	}
}
