package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gloomdelve/server/internal/constants"
	"github.com/gloomdelve/server/internal/engine"
	"github.com/gloomdelve/server/internal/game"
	"github.com/gloomdelve/server/internal/logging"
)

// StartRunRequest opens a dungeon run for a roster party.
type StartRunRequest struct {
	DungeonID    uint   `json:"dungeon_id"`
	CharacterIDs []uint `json:"character_ids"`
	Seed         int64  `json:"seed"`
}

// RunState pairs a run with its in-flight room battle, if any.
type RunState struct {
	Run    *game.DungeonRun `json:"run"`
	Battle *game.Battle     `json:"battle,omitempty"`
}

// StartDungeonRun validates the party, opens the run and immediately starts
// the first room's battle.
func (s *Service) StartDungeonRun(ctx context.Context, req StartRunRequest) (*RunState, error) {
	d, err := s.catalog.Dungeon(req.DungeonID)
	if err != nil {
		return nil, engine.ConfigErrorf("dungeon %d: %v", req.DungeonID, err)
	}
	if len(req.CharacterIDs) == 0 {
		return nil, engine.ValidationErrorf("a run needs at least one character")
	}

	party, err := s.buildParty(ctx, req.CharacterIDs)
	if err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	now := time.Now()
	run, err := s.orch.StartRun(d, party, seed, now)
	if err != nil {
		return nil, err
	}
	run.PublicID = uuid.NewString()
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	b, err := s.openRoomBattle(ctx, d, run, now)
	if err != nil {
		return nil, err
	}
	logging.Info("dungeon run started", logging.Fields{
		constants.LogFieldRunID:     run.PublicID,
		constants.LogFieldDungeonID: d.ID,
		constants.LogFieldRoom:      run.CurrentRoom,
	})
	return &RunState{Run: run, Battle: b}, nil
}

// buildParty assembles roster entries for the requested characters, joining
// the persistent roster rows with their catalog templates.
func (s *Service) buildParty(ctx context.Context, ids []uint) ([]game.RosterEntry, error) {
	var party []game.RosterEntry
	for position, id := range ids {
		c, err := s.repo.FindCharacter(ctx, id)
		if err != nil {
			return nil, engine.ValidationErrorf("character %d not found", id)
		}
		if !c.IsAlive {
			return nil, engine.ValidationErrorf("%s is dead and cannot enter a dungeon", c.Name)
		}
		tmpl, err := s.catalog.Character(c.TemplateID)
		if err != nil {
			return nil, engine.ConfigErrorf("character %s: %v", c.Name, err)
		}

		var equipment []game.Item
		for _, itemID := range c.EquipmentID {
			item, err := s.catalog.Item(itemID)
			if err != nil {
				return nil, engine.ConfigErrorf("character %s equipment: %v", c.Name, err)
			}
			equipment = append(equipment, *item)
		}

		skills := c.SkillIDs
		if len(skills) == 0 {
			skills = tmpl.StartingSkills
		}

		party = append(party, game.RosterEntry{
			Type:        game.ParticipantCharacter,
			RefID:       c.ID,
			Name:        c.Name,
			Level:       c.Level,
			Position:    position,
			Base:        tmpl.Base,
			Growth:      tmpl.Growth,
			CurrentHp:   c.CurrentHp,
			CurrentMp:   c.CurrentMp,
			SkillIDs:    append([]uint(nil), skills...),
			Equipment:   equipment,
			Consumables: append([]game.OwnedItem(nil), c.Consumables...),
		})
	}
	return party, nil
}

// openRoomBattle starts the battle for the run's current room and links it
// to the run.
func (s *Service) openRoomBattle(ctx context.Context, d *game.Dungeon, run *game.DungeonRun, now time.Time) (*game.Battle, error) {
	b, err := s.orch.BuildRoomBattle(d, run)
	if err != nil {
		return nil, err
	}
	b.PublicID = uuid.NewString()
	if b.Settings.MaxTurns == 0 {
		b.Settings.MaxTurns = s.cfg.Battle.MaxTurns
	}
	if err := s.machine.Start(b, now); err != nil {
		return nil, err
	}
	b.ActionDeadline = now.Add(s.actionTimeout())

	if err := s.repo.CreateBattle(ctx, b); err != nil {
		return nil, err
	}
	run.CurrentBattleID = b.ID
	if err := s.repo.SaveRun(ctx, run); err != nil {
		return nil, err
	}
	return b, nil
}
