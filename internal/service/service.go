package service

import (
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/gloomdelve/server/internal/catalog"
	"github.com/gloomdelve/server/internal/config"
	"github.com/gloomdelve/server/internal/dungeon"
	"github.com/gloomdelve/server/internal/engine"
	"github.com/gloomdelve/server/internal/storage"
)

// Sentinel errors surfaced to the API layer, which maps them to HTTP codes.
var (
	ErrBattleNotFound   = errors.New("battle not found")
	ErrRunNotFound      = errors.New("dungeon run not found")
	ErrBattleFinished   = errors.New("battle already finished")
	ErrRunFinished      = errors.New("dungeon run already finished")
	ErrBattleInProgress = errors.New("room battle still in progress")
	ErrNoCurrentBattle  = errors.New("run has no battle to resolve")
)

// Service wires the engine and orchestrator to persistence and the catalog.
// It owns all cross-aggregate sequencing: a battle outcome flowing into its
// run, roster write-back at run completion, timeout auto-resolution.
type Service struct {
	repo    storage.Repository
	catalog *catalog.Provider
	machine *engine.BattleStateMachine
	orch    *dungeon.Orchestrator
	cfg     *config.Config

	// stateGroup collapses concurrent identical state reads into one
	// database round-trip.
	stateGroup singleflight.Group
}

func New(repo storage.Repository, provider *catalog.Provider, cfg *config.Config) *Service {
	machine := engine.NewBattleStateMachine(provider)
	return &Service{
		repo:    repo,
		catalog: provider,
		machine: machine,
		orch:    dungeon.NewOrchestrator(provider, machine),
		cfg:     cfg,
	}
}
