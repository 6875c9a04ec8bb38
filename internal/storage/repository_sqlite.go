package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gloomdelve/server/internal/game"
)

// gormRepository implements Repository on a gorm handle.
type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateBattle(ctx context.Context, b *game.Battle) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create battle: %w", err)
	}
	return nil
}

func (r *gormRepository) SaveBattle(ctx context.Context, b *game.Battle) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(b).Error
	if err != nil {
		return fmt.Errorf("save battle: %w", err)
	}
	return nil
}

func (r *gormRepository) FindBattleByPublicID(ctx context.Context, publicID string) (*game.Battle, error) {
	var b game.Battle
	err := r.battleQuery(ctx).Where("public_id = ?", publicID).First(&b).Error
	if err != nil {
		return nil, wrapFind("battle", err)
	}
	return &b, nil
}

func (r *gormRepository) FindBattleByID(ctx context.Context, id uint) (*game.Battle, error) {
	var b game.Battle
	err := r.battleQuery(ctx).First(&b, id).Error
	if err != nil {
		return nil, wrapFind("battle", err)
	}
	return &b, nil
}

func (r *gormRepository) FindTimedOutBattles(ctx context.Context, now time.Time) ([]game.Battle, error) {
	var battles []game.Battle
	err := r.battleQuery(ctx).
		Where("status = ? AND action_deadline <= ?", game.BattleActive, now).
		Find(&battles).Error
	if err != nil {
		return nil, fmt.Errorf("find timed out battles: %w", err)
	}
	return battles, nil
}

func (r *gormRepository) battleQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Turns").
		Preload("Turns.Actions")
}

func (r *gormRepository) CreateRun(ctx context.Context, run *game.DungeonRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (r *gormRepository) SaveRun(ctx context.Context, run *game.DungeonRun) error {
	if err := r.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (r *gormRepository) FindRunByPublicID(ctx context.Context, publicID string) (*game.DungeonRun, error) {
	var run game.DungeonRun
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&run).Error
	if err != nil {
		return nil, wrapFind("run", err)
	}
	return &run, nil
}

func (r *gormRepository) FindRunByID(ctx context.Context, id uint) (*game.DungeonRun, error) {
	var run game.DungeonRun
	if err := r.db.WithContext(ctx).First(&run, id).Error; err != nil {
		return nil, wrapFind("run", err)
	}
	return &run, nil
}

func (r *gormRepository) FindCharacter(ctx context.Context, id uint) (*game.Character, error) {
	var c game.Character
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, wrapFind("character", err)
	}
	return &c, nil
}

func (r *gormRepository) FindCharacters(ctx context.Context, ids []uint) ([]game.Character, error) {
	var out []game.Character
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find characters: %w", err)
	}
	return out, nil
}

func (r *gormRepository) SaveCharacter(ctx context.Context, c *game.Character) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("save character: %w", err)
	}
	return nil
}

func wrapFind(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", what, err)
}
