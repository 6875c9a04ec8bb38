package catalog

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gloomdelve/server/internal/game"
)

// Provider serves catalog lookups to the engine and the orchestrator. The
// file load goes through a singleflight group, so a cold or freshly
// invalidated provider answers a burst of concurrent battle starts with one
// disk read.
type Provider struct {
	path string

	mu    sync.RWMutex
	data  *GameData
	group singleflight.Group

	skills     map[uint]*game.Skill
	items      map[uint]*game.Item
	characters map[uint]*game.CharacterTemplate
	enemies    map[uint]*game.EnemyTemplate
	dungeons   map[uint]*game.Dungeon
}

func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// NewStaticProvider wraps already-built game data; used by tests.
func NewStaticProvider(data *GameData) *Provider {
	p := &Provider{}
	p.index(data)
	return p
}

// Load reads the catalog from disk, deduplicating concurrent callers.
func (p *Provider) Load() error {
	_, err, _ := p.group.Do("load", func() (interface{}, error) {
		data, err := LoadGameData(p.path)
		if err != nil {
			return nil, err
		}
		p.index(data)
		return nil, nil
	})
	return err
}

func (p *Provider) index(data *GameData) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.data = data
	p.skills = make(map[uint]*game.Skill, len(data.Skills))
	for i := range data.Skills {
		p.skills[data.Skills[i].ID] = &data.Skills[i]
	}
	p.items = make(map[uint]*game.Item, len(data.Items))
	for i := range data.Items {
		p.items[data.Items[i].ID] = &data.Items[i]
	}
	p.characters = make(map[uint]*game.CharacterTemplate, len(data.Characters))
	for i := range data.Characters {
		p.characters[data.Characters[i].ID] = &data.Characters[i]
	}
	p.enemies = make(map[uint]*game.EnemyTemplate, len(data.Enemies))
	for i := range data.Enemies {
		p.enemies[data.Enemies[i].ID] = &data.Enemies[i]
	}
	p.dungeons = make(map[uint]*game.Dungeon, len(data.Dungeons))
	for i := range data.Dungeons {
		p.dungeons[data.Dungeons[i].ID] = &data.Dungeons[i]
	}
}

func (p *Provider) ready() error {
	p.mu.RLock()
	loaded := p.data != nil
	p.mu.RUnlock()
	if !loaded {
		return p.Load()
	}
	return nil
}

func (p *Provider) Skill(id uint) (*game.Skill, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.skills[id]
	if !ok {
		return nil, fmt.Errorf("unknown skill %d", id)
	}
	return s, nil
}

func (p *Provider) Item(id uint) (*game.Item, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	it, ok := p.items[id]
	if !ok {
		return nil, fmt.Errorf("unknown item %d", id)
	}
	return it, nil
}

func (p *Provider) Character(id uint) (*game.CharacterTemplate, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.characters[id]
	if !ok {
		return nil, fmt.Errorf("unknown character template %d", id)
	}
	return c, nil
}

func (p *Provider) Enemy(id uint) (*game.EnemyTemplate, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.enemies[id]
	if !ok {
		return nil, fmt.Errorf("unknown enemy template %d", id)
	}
	return e, nil
}

func (p *Provider) Dungeon(id uint) (*game.Dungeon, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.dungeons[id]
	if !ok {
		return nil, fmt.Errorf("unknown dungeon %d", id)
	}
	return d, nil
}

// Skills lists every skill in ascending id order.
func (p *Provider) Skills() ([]game.Skill, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := append([]game.Skill(nil), p.data.Skills...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Items lists every item in ascending id order.
func (p *Provider) Items() ([]game.Item, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := append([]game.Item(nil), p.data.Items...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Dungeons lists every dungeon in ascending id order.
func (p *Provider) Dungeons() ([]game.Dungeon, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := append([]game.Dungeon(nil), p.data.Dungeons...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
