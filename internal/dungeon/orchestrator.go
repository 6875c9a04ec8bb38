package dungeon

import (
	"time"

	"github.com/gloomdelve/server/internal/engine"
	"github.com/gloomdelve/server/internal/game"
)

// Catalog gives the orchestrator read access to enemy templates. Dungeon
// layouts arrive as arguments; only formation slots need resolving here.
type Catalog interface {
	Enemy(id uint) (*game.EnemyTemplate, error)
}

// Orchestrator sequences a party through the rooms of a dungeon. The run
// exclusively owns its party snapshot for its duration; roster write-back
// happens once, at a terminal state, outside this package.
type Orchestrator struct {
	catalog Catalog
	machine *engine.BattleStateMachine
}

func NewOrchestrator(catalog Catalog, machine *engine.BattleStateMachine) *Orchestrator {
	return &Orchestrator{catalog: catalog, machine: machine}
}

const roomSeedStride = 0x51_7c_c1_b7_27_22_0a_95

// StartRun validates the party against the dungeon's entry gates and opens
// the run at room one.
func (o *Orchestrator) StartRun(d *game.Dungeon, party []game.RosterEntry, seed int64, now time.Time) (*game.DungeonRun, error) {
	if len(d.Rooms) == 0 {
		return nil, engine.ConfigErrorf("dungeon %s has no rooms", d.Name)
	}
	if len(party) < d.MinPartySize {
		return nil, engine.ValidationErrorf("dungeon %s needs at least %d party members", d.Name, d.MinPartySize)
	}
	if d.MaxPartySize > 0 && len(party) > d.MaxPartySize {
		return nil, engine.ValidationErrorf("dungeon %s allows at most %d party members", d.Name, d.MaxPartySize)
	}
	for _, entry := range party {
		if entry.Type != game.ParticipantCharacter {
			return nil, engine.ValidationErrorf("%s is not a playable character", entry.Name)
		}
		if entry.CurrentHp == 0 {
			return nil, engine.ValidationErrorf("%s cannot enter a dungeon while dead", entry.Name)
		}
		if min := d.Requirements.MinCharacterLevel; min > 0 && entry.Level < min {
			return nil, engine.ValidationErrorf("%s is below the required level %d", entry.Name, min)
		}
	}

	run := &game.DungeonRun{
		DungeonID:    d.ID,
		Status:       game.RunPreparing,
		Seed:         seed,
		CurrentRoom:  d.Rooms[0].Number,
		IsPermadeath: d.Permadeath,
		StartedAt:    &now,
	}
	for _, entry := range party {
		run.PartySnapshot = append(run.PartySnapshot, entry)
		run.Party = append(run.Party, game.PartyMember{
			CharacterID: entry.RefID,
			Position:    entry.Position,
			CurrentHp:   entry.CurrentHp,
			CurrentMp:   entry.CurrentMp,
			Status:      game.StatusActive,
		})
	}
	run.Status = game.RunInProgress
	return run, nil
}

// CurrentRoom returns the layout of the run's current room.
func (o *Orchestrator) CurrentRoom(d *game.Dungeon, run *game.DungeonRun) (*game.DungeonRoom, error) {
	for i := range d.Rooms {
		if d.Rooms[i].Number == run.CurrentRoom {
			return &d.Rooms[i], nil
		}
	}
	return nil, engine.ConfigErrorf("dungeon %s has no room %d", d.Name, run.CurrentRoom)
}

// BuildRoomBattle assembles the encounter battle for the run's current room.
// Party HP and MP carry over from the previous room; lost and dead members do
// not enter.
func (o *Orchestrator) BuildRoomBattle(d *game.Dungeon, run *game.DungeonRun) (*game.Battle, error) {
	if game.RunTerminal(run.Status) {
		return nil, engine.ValidationErrorf("run is over")
	}
	room, err := o.CurrentRoom(d, run)
	if err != nil {
		return nil, err
	}
	if room.Encounter == nil {
		return nil, engine.ValidationErrorf("room %d has no encounter", room.Number)
	}

	roster, err := o.partyRoster(run)
	if err != nil {
		return nil, err
	}
	enemies, err := o.formationRoster(room.Encounter)
	if err != nil {
		return nil, err
	}
	roster = append(roster, enemies...)

	btype := game.BattleTypeDungeon
	if room.Type == game.RoomBoss || room.Type == game.RoomMiniboss {
		btype = game.BattleTypeBoss
	}
	settings := game.BattleSettings{
		AllowEscape: !d.NoEscape && !room.Encounter.NoEscape,
		Difficulty:  d.Difficulty,
	}

	b, err := o.machine.NewBattle(roster, btype, settings, roomSeed(run.Seed, room.Number))
	if err != nil {
		return nil, err
	}
	b.DungeonRunID = run.ID
	b.RoomNumber = room.Number
	return b, nil
}

// partyRoster rebuilds the battle roster from the run snapshot, carrying the
// current field HP/MP for each surviving member.
func (o *Orchestrator) partyRoster(run *game.DungeonRun) ([]game.RosterEntry, error) {
	var roster []game.RosterEntry
	for _, member := range run.Party {
		if member.Lost || member.Status == game.StatusDead {
			continue
		}
		entry, ok := snapshotEntry(run, member.CharacterID)
		if !ok {
			return nil, engine.ConfigErrorf("run has no snapshot for character %d", member.CharacterID)
		}
		entry.CurrentHp = member.CurrentHp
		entry.CurrentMp = member.CurrentMp
		roster = append(roster, entry)
	}
	if len(roster) == 0 {
		return nil, engine.ValidationErrorf("no party members can fight")
	}
	return roster, nil
}

// formationRoster resolves the encounter formation into enemy roster entries.
func (o *Orchestrator) formationRoster(enc *game.DungeonEncounter) ([]game.RosterEntry, error) {
	if len(enc.Formation) == 0 {
		return nil, engine.ConfigErrorf("encounter %s has an empty formation", enc.Name)
	}
	var roster []game.RosterEntry
	for _, slot := range enc.Formation {
		tmpl, err := o.catalog.Enemy(slot.EnemyID)
		if err != nil {
			return nil, engine.ConfigErrorf("enemy %d: %v", slot.EnemyID, err)
		}
		level := slot.Level
		if level < 1 {
			level = 1
		}
		behavior := tmpl.AI
		if enc.AI != nil {
			behavior = *enc.AI
		}
		roster = append(roster, game.RosterEntry{
			Type:             game.ParticipantEnemy,
			RefID:            tmpl.ID,
			Name:             tmpl.Name,
			Level:            level,
			Position:         slot.Position,
			Base:             tmpl.Base,
			Growth:           tmpl.Growth,
			CurrentHp:        -1,
			CurrentMp:        -1,
			SkillIDs:         tmpl.SkillIDs,
			Resistances:      tmpl.Resistances,
			Weaknesses:       tmpl.Weaknesses,
			AI:               &behavior,
			ExperienceReward: tmpl.ExperienceReward,
			GoldReward:       tmpl.GoldReward,
			Drops:            tmpl.Drops,
		})
	}
	return roster, nil
}

// ApplyBattleOutcome folds a finished room battle back into the run: party
// field state, progress counters, history, rewards and room advancement.
func (o *Orchestrator) ApplyBattleOutcome(d *game.Dungeon, run *game.DungeonRun, b *game.Battle, now time.Time) error {
	if game.RunTerminal(run.Status) {
		return engine.ValidationErrorf("run is over")
	}
	if !game.Terminal(b.Status) {
		return engine.ValidationErrorf("battle has not finished")
	}

	room, err := o.CurrentRoom(d, run)
	if err != nil {
		return err
	}

	o.syncParty(run, b)
	o.recordProgress(run, b)
	run.BattleHistory = append(run.BattleHistory, game.BattleRecord{
		RoomNumber: room.Number,
		BattleID:   b.ID,
		Result:     b.Status,
		Duration:   battleDuration(b),
	})
	run.CurrentBattleID = 0

	switch {
	case b.Status == game.BattleVictory,
		b.Status == game.BattleFled && b.FledBy == game.ParticipantEnemy:
		// An enemy rout clears the room but pays nothing.
		if b.Status == game.BattleVictory {
			run.Progress.BattlesWon++
			o.accumulateRewards(d, run, room, b)
		}
		run.Progress.RoomsCompleted = append(run.Progress.RoomsCompleted, room.Number)
		if partyWiped(run) {
			// A win that leaves nobody standing still ends the run.
			o.terminate(run, game.RunFailed, now)
			return nil
		}
		return o.advance(d, run, room, now)

	case b.Status == game.BattleDefeat:
		run.Progress.BattlesLost++
		o.markLosses(run)
		o.terminate(run, game.RunFailed, now)
		return nil

	default: // fled by the party
		o.terminate(run, game.RunAbandoned, now)
		return nil
	}
}

// Abandon ends an in-progress run on the player's request. Progress and
// rewards accumulated so far stay on the record; nothing further pays out.
func (o *Orchestrator) Abandon(run *game.DungeonRun, now time.Time) error {
	if game.RunTerminal(run.Status) {
		return engine.ValidationErrorf("run is over")
	}
	o.terminate(run, game.RunAbandoned, now)
	return nil
}

// advance moves the run past a completed room: rest rooms heal, treasure
// rooms pay, the last room completes the run.
func (o *Orchestrator) advance(d *game.Dungeon, run *game.DungeonRun, completed *game.DungeonRoom, now time.Time) error {
	next := nextRoom(d, completed.Number)
	for next != nil && next.Encounter == nil {
		switch next.Type {
		case game.RoomRest:
			o.restParty(run)
		case game.RoomTreasure:
			run.Rewards.Gold += next.Gold
			run.Rewards.Experience += next.Experience
			for _, item := range next.Items {
				run.Rewards.Items = mergeItems(run.Rewards.Items, item)
			}
		}
		run.Progress.RoomsCompleted = append(run.Progress.RoomsCompleted, next.Number)
		next = nextRoom(d, next.Number)
	}

	if next == nil {
		run.Score = runScore(run)
		o.terminate(run, game.RunCompleted, now)
		return nil
	}
	run.CurrentRoom = next.Number
	return nil
}

// syncParty copies post-battle HP, MP and status back onto the party.
func (o *Orchestrator) syncParty(run *game.DungeonRun, b *game.Battle) {
	for i := range b.Participants {
		p := &b.Participants[i]
		if p.Type != game.ParticipantCharacter {
			continue
		}
		for j := range run.Party {
			if run.Party[j].CharacterID == p.RefID {
				run.Party[j].CurrentHp = p.CurrentHp
				run.Party[j].CurrentMp = p.CurrentMp
				run.Party[j].Status = p.Status
				if p.Status == game.StatusDead && run.IsPermadeath {
					run.Party[j].Lost = true
					run.Rewards.CharactersLost = appendUnique(run.Rewards.CharactersLost, p.RefID)
				}
			}
		}
	}
}

func (o *Orchestrator) recordProgress(run *game.DungeonRun, b *game.Battle) {
	for i := range b.Participants {
		p := &b.Participants[i]
		if p.Type == game.ParticipantEnemy && !game.IsAlive(p) {
			run.Progress.EnemiesDefeated++
		}
	}
	for i := range b.Turns {
		for j := range b.Turns[i].Actions {
			a := &b.Turns[i].Actions[j]
			actor := game.ParticipantByID(b, a.ParticipantID)
			if actor == nil {
				continue
			}
			if actor.Type == game.ParticipantCharacter {
				run.Progress.TotalDamage += a.Damage
			} else {
				run.Progress.TotalDamageTaken += a.Damage
			}
		}
	}
}

// accumulateRewards applies the dungeon multipliers to the battle payout and
// adds the room bonus.
func (o *Orchestrator) accumulateRewards(d *game.Dungeon, run *game.DungeonRun, room *game.DungeonRoom, b *game.Battle) {
	exp := b.Rewards.Experience + room.Experience + room.Encounter.Experience
	gold := b.Rewards.Gold + room.Gold + room.Encounter.Gold
	if m := d.Rewards.ExperienceMultiplier; m > 0 {
		exp = int(float64(exp) * m)
	}
	if m := d.Rewards.GoldMultiplier; m > 0 {
		gold = int(float64(gold) * m)
	}
	run.Rewards.Experience += exp
	run.Rewards.Gold += gold
	for _, item := range b.Rewards.Items {
		run.Rewards.Items = mergeItems(run.Rewards.Items, item)
	}
	for _, item := range room.Encounter.Items {
		run.Rewards.Items = mergeItems(run.Rewards.Items, item)
	}
}

// restParty fully restores every surviving, non-lost member.
func (o *Orchestrator) restParty(run *game.DungeonRun) {
	for i := range run.Party {
		member := &run.Party[i]
		if member.Lost || member.Status == game.StatusDead {
			continue
		}
		if entry, ok := snapshotEntry(run, member.CharacterID); ok {
			if stats, err := (engine.StatResolver{}).Resolve(entry); err == nil {
				member.CurrentHp = stats.Hp
				member.CurrentMp = stats.Mp
				member.Status = game.StatusActive
			}
		}
	}
}

// markLosses flags the fallen for permadeath runs after a lost battle.
func (o *Orchestrator) markLosses(run *game.DungeonRun) {
	if !run.IsPermadeath {
		return
	}
	for i := range run.Party {
		if run.Party[i].Status == game.StatusDead {
			run.Party[i].Lost = true
			run.Rewards.CharactersLost = appendUnique(run.Rewards.CharactersLost, run.Party[i].CharacterID)
		}
	}
}

// partyWiped reports whether no member is left who could enter a battle.
func partyWiped(run *game.DungeonRun) bool {
	for i := range run.Party {
		member := &run.Party[i]
		if !member.Lost && member.Status != game.StatusDead {
			return false
		}
	}
	return true
}

func (o *Orchestrator) terminate(run *game.DungeonRun, status game.RunStatus, now time.Time) {
	run.Status = status
	run.CurrentBattleID = 0
	ended := now
	run.EndedAt = &ended
}

// runScore weighs completion depth over raw damage.
func runScore(run *game.DungeonRun) int {
	return len(run.Progress.RoomsCompleted)*100 +
		run.Progress.EnemiesDefeated*10 +
		run.Progress.TotalDamage/10
}

func roomSeed(runSeed int64, room int) int64 {
	return runSeed ^ int64(room)*roomSeedStride
}

func nextRoom(d *game.Dungeon, after int) *game.DungeonRoom {
	var best *game.DungeonRoom
	for i := range d.Rooms {
		r := &d.Rooms[i]
		if r.Number <= after {
			continue
		}
		if best == nil || r.Number < best.Number {
			best = r
		}
	}
	return best
}

func snapshotEntry(run *game.DungeonRun, characterID uint) (game.RosterEntry, bool) {
	for _, entry := range run.PartySnapshot {
		if entry.RefID == characterID {
			return entry, true
		}
	}
	return game.RosterEntry{}, false
}

func mergeItems(items []game.ItemQuantity, add game.ItemQuantity) []game.ItemQuantity {
	for i := range items {
		if items[i].ItemID == add.ItemID {
			items[i].Quantity += add.Quantity
			return items
		}
	}
	return append(items, add)
}

func appendUnique(ids []uint, id uint) []uint {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func battleDuration(b *game.Battle) int {
	if b.StartedAt == nil || b.EndedAt == nil {
		return 0
	}
	return int(b.EndedAt.Sub(*b.StartedAt) / time.Second)
}
