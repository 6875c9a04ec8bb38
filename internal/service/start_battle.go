package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gloomdelve/server/internal/constants"
	"github.com/gloomdelve/server/internal/game"
	"github.com/gloomdelve/server/internal/logging"
)

// StartBattleRequest starts a standalone battle from a prepared roster
// snapshot, outside any dungeon run.
type StartBattleRequest struct {
	Roster   []game.RosterEntry  `json:"roster"`
	Type     game.BattleType     `json:"type"`
	Settings game.BattleSettings `json:"settings"`
	Seed     int64               `json:"seed"`
}

// StartBattle assembles, persists and activates a battle. The returned
// battle is already collecting actions for its first round.
func (s *Service) StartBattle(ctx context.Context, req StartBattleRequest) (*game.Battle, error) {
	btype := req.Type
	if btype == "" {
		btype = game.BattleTypeRandom
	}
	settings := req.Settings
	if settings.MaxTurns == 0 {
		settings.MaxTurns = s.cfg.Battle.MaxTurns
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	b, err := s.machine.NewBattle(req.Roster, btype, settings, seed)
	if err != nil {
		return nil, err
	}
	b.PublicID = uuid.NewString()

	now := time.Now()
	if err := s.machine.Start(b, now); err != nil {
		return nil, err
	}
	b.ActionDeadline = now.Add(s.actionTimeout())

	if err := s.repo.CreateBattle(ctx, b); err != nil {
		return nil, err
	}
	logging.Info("battle started", logging.Fields{
		constants.LogFieldBattleID: b.PublicID,
		constants.LogFieldStatus:   b.Status,
	})
	return b, nil
}

func (s *Service) actionTimeout() time.Duration {
	return time.Duration(s.cfg.Battle.ActionTimeoutSeconds) * time.Second
}
