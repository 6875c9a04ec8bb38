package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gloomdelve/server/internal/constants"
	"github.com/gloomdelve/server/internal/engine"
	"github.com/gloomdelve/server/internal/game"
	"github.com/gloomdelve/server/internal/logging"
	"github.com/gloomdelve/server/internal/storage"
)

// GetRunState returns the run and its in-flight room battle.
func (s *Service) GetRunState(ctx context.Context, runID string) (*RunState, error) {
	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	state := &RunState{Run: run}
	if run.CurrentBattleID != 0 {
		b, err := s.repo.FindBattleByID(ctx, run.CurrentBattleID)
		if err == nil {
			state.Battle = b
		}
	}
	return state, nil
}

// AdvanceDungeonRun opens the battle for the run's current room. It is valid
// only between rooms: the previous battle must have resolved already.
func (s *Service) AdvanceDungeonRun(ctx context.Context, runID string) (*RunState, error) {
	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if game.RunTerminal(run.Status) {
		return nil, ErrRunFinished
	}
	if run.CurrentBattleID != 0 {
		return nil, ErrBattleInProgress
	}

	d, err := s.catalog.Dungeon(run.DungeonID)
	if err != nil {
		return nil, engine.ConfigErrorf("dungeon %d: %v", run.DungeonID, err)
	}
	b, err := s.openRoomBattle(ctx, d, run, time.Now())
	if err != nil {
		return nil, err
	}
	logging.Info("run advanced", logging.Fields{
		constants.LogFieldRunID: run.PublicID,
		constants.LogFieldRoom:  run.CurrentRoom,
	})
	return &RunState{Run: run, Battle: b}, nil
}

// AbandonDungeonRun ends a run at the player's request. An in-flight room
// battle is closed as fled.
func (s *Service) AbandonDungeonRun(ctx context.Context, runID string) (*game.DungeonRun, error) {
	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if game.RunTerminal(run.Status) {
		return nil, ErrRunFinished
	}

	now := time.Now()
	if run.CurrentBattleID != 0 {
		if b, err := s.repo.FindBattleByID(ctx, run.CurrentBattleID); err == nil && !game.Terminal(b.Status) {
			b.Status = game.BattleFled
			b.FledBy = game.ParticipantCharacter
			b.PendingActions = nil
			ended := now
			b.EndedAt = &ended
			if err := s.repo.SaveBattle(ctx, b); err != nil {
				return nil, err
			}
		}
	}

	if err := s.orch.Abandon(run, now); err != nil {
		return nil, err
	}
	if err := s.writeBackRoster(ctx, run); err != nil {
		return nil, err
	}
	if err := s.repo.SaveRun(ctx, run); err != nil {
		return nil, err
	}
	logging.Info("run abandoned", logging.Fields{
		constants.LogFieldRunID: run.PublicID,
	})
	return run, nil
}

// applyRunOutcome folds a finished room battle into its run and, when the
// run reaches a terminal state, reconciles the roster.
func (s *Service) applyRunOutcome(ctx context.Context, b *game.Battle, now time.Time) error {
	run, err := s.repo.FindRunByID(ctx, b.DungeonRunID)
	if err != nil {
		return fmt.Errorf("load run for battle %s: %w", b.PublicID, err)
	}
	if game.RunTerminal(run.Status) {
		return nil
	}

	d, err := s.catalog.Dungeon(run.DungeonID)
	if err != nil {
		return engine.ConfigErrorf("dungeon %d: %v", run.DungeonID, err)
	}
	if err := s.orch.ApplyBattleOutcome(d, run, b, now); err != nil {
		return err
	}
	if game.RunTerminal(run.Status) {
		if err := s.writeBackRoster(ctx, run); err != nil {
			return err
		}
		logging.Info("run finished", logging.Fields{
			constants.LogFieldRunID:  run.PublicID,
			constants.LogFieldStatus: run.Status,
		})
	}
	return s.repo.SaveRun(ctx, run)
}

func (s *Service) loadRun(ctx context.Context, publicID string) (*game.DungeonRun, error) {
	run, err := s.repo.FindRunByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("load run: %w", err)
	}
	return run, nil
}

// writeBackRoster reconciles a terminal run with the persistent roster:
// field HP/MP, earned experience and gold, and permadeath losses. Rewards
// are split evenly across surviving members.
func (s *Service) writeBackRoster(ctx context.Context, run *game.DungeonRun) error {
	if !game.RunTerminal(run.Status) {
		return nil
	}

	survivors := 0
	for _, member := range run.Party {
		if !member.Lost {
			survivors++
		}
	}

	for _, member := range run.Party {
		c, err := s.repo.FindCharacter(ctx, member.CharacterID)
		if err != nil {
			return fmt.Errorf("roster write-back: %w", err)
		}
		c.CurrentHp = member.CurrentHp
		c.CurrentMp = member.CurrentMp
		if member.Lost {
			c.IsAlive = false
		} else if survivors > 0 && run.Status == game.RunCompleted {
			c.Experience += run.Rewards.Experience / survivors
			c.Gold += run.Rewards.Gold / survivors
		}
		if err := s.repo.SaveCharacter(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
