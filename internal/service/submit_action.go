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

// SubmitPlayerAction stages one player action. Once every eligible player
// participant has submitted, the round resolves in the same call and the
// updated battle is returned.
func (s *Service) SubmitPlayerAction(ctx context.Context, battleID string, req engine.ActionRequest) (*game.Battle, error) {
	b, err := s.loadBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}
	if game.Terminal(b.Status) {
		return nil, ErrBattleFinished
	}

	if err := s.machine.SubmitAction(b, req); err != nil {
		return nil, err
	}

	if s.machine.Ready(b) {
		if err := s.resolveRound(ctx, b, time.Now()); err != nil {
			return nil, err
		}
	}
	if err := s.repo.SaveBattle(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// resolveRound runs one round and handles the fallout: a fresh action
// deadline for a continuing battle, run bookkeeping for a finished one.
func (s *Service) resolveRound(ctx context.Context, b *game.Battle, now time.Time) error {
	if _, err := s.machine.ResolveRound(b, now); err != nil {
		return err
	}
	if !game.Terminal(b.Status) {
		b.ActionDeadline = now.Add(s.actionTimeout())
		return nil
	}

	logging.Info("battle finished", logging.Fields{
		constants.LogFieldBattleID: b.PublicID,
		constants.LogFieldStatus:   b.Status,
		constants.LogFieldTurn:     b.CurrentTurn,
	})
	if b.DungeonRunID != 0 {
		if err := s.applyRunOutcome(ctx, b, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) loadBattle(ctx context.Context, publicID string) (*game.Battle, error) {
	b, err := s.repo.FindBattleByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBattleNotFound
		}
		return nil, fmt.Errorf("load battle: %w", err)
	}
	return b, nil
}
