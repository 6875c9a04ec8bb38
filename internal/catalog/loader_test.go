package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gloomdelve/server/internal/game"
)

func validData() *GameData {
	return &GameData{
		Skills: []game.Skill{
			{ID: 1, Name: "Slash", Type: game.SkillActive, Target: game.TargetSingleEnemy, DamageType: game.DamagePhysical, MpCost: 5, Power: 110},
		},
		Items: []game.Item{
			{ID: 1, Name: "Health Potion", Type: game.ItemConsumable, ConsumableEffect: &game.ConsumableEffect{HealHp: 50}},
		},
		Characters: []game.CharacterTemplate{
			{ID: 1, Name: "Goblin Fighter", Base: game.StatBlock{Hp: 100}, StartingSkills: []uint{1}},
		},
		Enemies: []game.EnemyTemplate{
			{ID: 1, Name: "Crimson Imp", Base: game.StatBlock{Hp: 60}, SkillIDs: []uint{1},
				Drops: []game.DropSpec{{ItemID: 1, Chance: 40, MinQuantity: 1, MaxQuantity: 1}}},
		},
		Dungeons: []game.Dungeon{
			{ID: 1, Name: "Emberfall Depths", Rooms: []game.DungeonRoom{
				{Number: 1, Type: game.RoomNormal, Encounter: &game.DungeonEncounter{
					Type: game.EncounterCombat, Formation: []game.FormationSlot{{EnemyID: 1, Level: 1}},
				}},
			}},
		},
	}
}

func TestValidateAcceptsConsistentData(t *testing.T) {
	if err := validData().validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsDanglingReferences(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GameData)
	}{
		{"character unknown skill", func(d *GameData) { d.Characters[0].StartingSkills = []uint{99} }},
		{"enemy unknown skill", func(d *GameData) { d.Enemies[0].SkillIDs = []uint{99} }},
		{"enemy unknown drop", func(d *GameData) { d.Enemies[0].Drops[0].ItemID = 99 }},
		{"dungeon unknown enemy", func(d *GameData) { d.Dungeons[0].Rooms[0].Encounter.Formation[0].EnemyID = 99 }},
		{"duplicate skill id", func(d *GameData) { d.Skills = append(d.Skills, d.Skills[0]) }},
		{"consumable without effect", func(d *GameData) { d.Items[0].ConsumableEffect = nil }},
		{"dungeon without rooms", func(d *GameData) { d.Dungeons[0].Rooms = nil }},
		{"duplicate room number", func(d *GameData) {
			d.Dungeons[0].Rooms = append(d.Dungeons[0].Rooms, d.Dungeons[0].Rooms[0])
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validData()
			tc.mutate(d)
			if err := d.validate(); err == nil {
				t.Errorf("validate accepted broken data")
			}
		})
	}
}

func TestLoadGameDataFromYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamedata.yaml")
	doc := `
skills:
  - id: 1
    name: Slash
    type: active
    target: single_enemy
    damage_type: physical
    mp_cost: 5
    power: 110
items:
  - id: 1
    name: Health Potion
    type: consumable
    consumable_effect:
      heal_hp: 50
characters:
  - id: 1
    name: Goblin Fighter
    base:
      hp: 100
      attack: 14
    starting_skills: [1]
enemies:
  - id: 1
    name: Crimson Imp
    base:
      hp: 60
    skill_ids: [1]
    resistances:
      fire: 50
dungeons:
  - id: 1
    name: Emberfall Depths
    rooms:
      - number: 1
        type: normal
        encounter:
          type: combat
          formation:
            - position: 0
              enemy_id: 1
              level: 1
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := LoadGameData(path)
	if err != nil {
		t.Fatalf("LoadGameData: %v", err)
	}
	if len(data.Skills) != 1 || data.Skills[0].Name != "Slash" {
		t.Errorf("skills = %+v", data.Skills)
	}
	if data.Enemies[0].Resistances[game.ElementFire] != 50 {
		t.Errorf("resistances = %v, want fire 50", data.Enemies[0].Resistances)
	}
}

func TestProviderLookups(t *testing.T) {
	p := NewStaticProvider(validData())

	skill, err := p.Skill(1)
	if err != nil || skill.Name != "Slash" {
		t.Errorf("Skill(1) = %v, %v", skill, err)
	}
	if _, err := p.Skill(99); err == nil {
		t.Errorf("unknown skill lookup succeeded")
	}
	if _, err := p.Enemy(1); err != nil {
		t.Errorf("Enemy(1): %v", err)
	}
	dungeons, err := p.Dungeons()
	if err != nil || len(dungeons) != 1 {
		t.Errorf("Dungeons() = %v, %v", dungeons, err)
	}
}
