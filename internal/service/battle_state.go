package service

import (
	"context"

	"github.com/gloomdelve/server/internal/game"
)

// GetBattleState returns the full current state of a battle: participants,
// turn history and pending-round metadata. Concurrent reads of the same
// battle share one database round-trip.
func (s *Service) GetBattleState(ctx context.Context, publicID string) (*game.Battle, error) {
	v, err, _ := s.stateGroup.Do(publicID, func() (interface{}, error) {
		return s.loadBattle(ctx, publicID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.Battle), nil
}
