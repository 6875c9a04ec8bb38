package storage

import (
	"context"
	"errors"
	"time"

	"github.com/gloomdelve/server/internal/game"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Repository is the persistence boundary for battles, runs and the roster.
type Repository interface {
	CreateBattle(ctx context.Context, b *game.Battle) error
	SaveBattle(ctx context.Context, b *game.Battle) error
	FindBattleByPublicID(ctx context.Context, publicID string) (*game.Battle, error)
	FindBattleByID(ctx context.Context, id uint) (*game.Battle, error)

	// FindTimedOutBattles returns active battles whose action deadline has
	// passed, for the background scanner.
	FindTimedOutBattles(ctx context.Context, now time.Time) ([]game.Battle, error)

	CreateRun(ctx context.Context, r *game.DungeonRun) error
	SaveRun(ctx context.Context, r *game.DungeonRun) error
	FindRunByPublicID(ctx context.Context, publicID string) (*game.DungeonRun, error)
	FindRunByID(ctx context.Context, id uint) (*game.DungeonRun, error)

	FindCharacter(ctx context.Context, id uint) (*game.Character, error)
	FindCharacters(ctx context.Context, ids []uint) ([]game.Character, error)
	SaveCharacter(ctx context.Context, c *game.Character) error
}
