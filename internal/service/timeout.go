package service

import (
	"context"
	"time"

	"github.com/gloomdelve/server/internal/constants"
	"github.com/gloomdelve/server/internal/logging"
)

// RunTimeoutScanner resolves battles whose action deadline expired. Missing
// player submissions are auto-filled as passes so the round still plays out
// deterministically. Blocks until ctx is cancelled.
func (s *Service) RunTimeoutScanner(ctx context.Context) {
	interval := time.Duration(s.cfg.TimeoutScanSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.HandleTimedOutBattles(ctx, now)
		}
	}
}

// HandleTimedOutBattles force-resolves every overdue battle once.
func (s *Service) HandleTimedOutBattles(ctx context.Context, now time.Time) {
	battles, err := s.repo.FindTimedOutBattles(ctx, now)
	if err != nil {
		logging.Error("timeout scan failed", err, nil)
		return
	}
	for i := range battles {
		b := &battles[i]
		s.machine.FillMissingActions(b)
		if err := s.resolveRound(ctx, b, now); err != nil {
			logging.Error("timed out battle failed to resolve", err, logging.Fields{
				constants.LogFieldBattleID: b.PublicID,
			})
			continue
		}
		if err := s.repo.SaveBattle(ctx, b); err != nil {
			logging.Error("timed out battle failed to save", err, logging.Fields{
				constants.LogFieldBattleID: b.PublicID,
			})
			continue
		}
		logging.Info("battle auto-resolved after timeout", logging.Fields{
			constants.LogFieldBattleID: b.PublicID,
			constants.LogFieldStatus:   b.Status,
			constants.LogFieldTurn:     b.CurrentTurn,
		})
	}
}
