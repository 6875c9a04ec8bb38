package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gloomdelve/server/internal/engine"
	"github.com/gloomdelve/server/internal/game"
)

// GameData is the full game-data catalog as loaded from disk. Templates are
// read-mostly: loaded once, validated, then served to battles as plain data.
type GameData struct {
	Skills     []game.Skill             `yaml:"skills"`
	Items      []game.Item              `yaml:"items"`
	Characters []game.CharacterTemplate `yaml:"characters"`
	Enemies    []game.EnemyTemplate     `yaml:"enemies"`
	Dungeons   []game.Dungeon           `yaml:"dungeons"`
}

// LoadGameData reads and validates a catalog file. Any dangling reference
// fails the whole load; a server must not come up on broken game data.
func LoadGameData(path string) (*GameData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game data: %w", err)
	}
	var data GameData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse game data: %w", err)
	}
	if err := data.validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

func (d *GameData) validate() error {
	skills := map[uint]bool{}
	for i := range d.Skills {
		s := &d.Skills[i]
		if s.ID == 0 {
			return engine.ConfigErrorf("skill %q has no id", s.Name)
		}
		if skills[s.ID] {
			return engine.ConfigErrorf("duplicate skill id %d", s.ID)
		}
		skills[s.ID] = true
		if s.MpCost < 0 || s.Power < 0 || s.Cooldown < 0 {
			return engine.ConfigErrorf("skill %q has negative cost data", s.Name)
		}
	}

	items := map[uint]bool{}
	for i := range d.Items {
		it := &d.Items[i]
		if it.ID == 0 {
			return engine.ConfigErrorf("item %q has no id", it.Name)
		}
		if items[it.ID] {
			return engine.ConfigErrorf("duplicate item id %d", it.ID)
		}
		items[it.ID] = true
		if it.Type == game.ItemConsumable && it.ConsumableEffect == nil {
			return engine.ConfigErrorf("consumable %q has no effect", it.Name)
		}
	}

	characters := map[uint]bool{}
	for i := range d.Characters {
		c := &d.Characters[i]
		if c.ID == 0 || characters[c.ID] {
			return engine.ConfigErrorf("character template %q has a missing or duplicate id", c.Name)
		}
		characters[c.ID] = true
		for _, id := range c.StartingSkills {
			if !skills[id] {
				return engine.ConfigErrorf("character %q references unknown skill %d", c.Name, id)
			}
		}
	}

	enemies := map[uint]bool{}
	for i := range d.Enemies {
		e := &d.Enemies[i]
		if e.ID == 0 || enemies[e.ID] {
			return engine.ConfigErrorf("enemy template %q has a missing or duplicate id", e.Name)
		}
		enemies[e.ID] = true
		for _, id := range e.SkillIDs {
			if !skills[id] {
				return engine.ConfigErrorf("enemy %q references unknown skill %d", e.Name, id)
			}
		}
		for _, drop := range e.Drops {
			if !items[drop.ItemID] {
				return engine.ConfigErrorf("enemy %q drops unknown item %d", e.Name, drop.ItemID)
			}
		}
	}

	dungeons := map[uint]bool{}
	for i := range d.Dungeons {
		dg := &d.Dungeons[i]
		if dg.ID == 0 || dungeons[dg.ID] {
			return engine.ConfigErrorf("dungeon %q has a missing or duplicate id", dg.Name)
		}
		dungeons[dg.ID] = true
		if len(dg.Rooms) == 0 {
			return engine.ConfigErrorf("dungeon %q has no rooms", dg.Name)
		}
		seen := map[int]bool{}
		for j := range dg.Rooms {
			room := &dg.Rooms[j]
			if seen[room.Number] {
				return engine.ConfigErrorf("dungeon %q repeats room number %d", dg.Name, room.Number)
			}
			seen[room.Number] = true
			if room.Encounter == nil {
				continue
			}
			for _, slot := range room.Encounter.Formation {
				if !enemies[slot.EnemyID] {
					return engine.ConfigErrorf("dungeon %q room %d references unknown enemy %d", dg.Name, room.Number, slot.EnemyID)
				}
			}
		}
	}
	return nil
}
