package dungeon

import (
	"fmt"
	"testing"
	"time"

	"github.com/gloomdelve/server/internal/engine"
	"github.com/gloomdelve/server/internal/game"
)

type stubCatalog struct {
	enemies map[uint]*game.EnemyTemplate
}

func (c stubCatalog) Enemy(id uint) (*game.EnemyTemplate, error) {
	e, ok := c.enemies[id]
	if !ok {
		return nil, fmt.Errorf("unknown enemy %d", id)
	}
	return e, nil
}

func (c stubCatalog) Skill(id uint) (*game.Skill, error) { return nil, fmt.Errorf("unknown skill %d", id) }
func (c stubCatalog) Item(id uint) (*game.Item, error)   { return nil, fmt.Errorf("unknown item %d", id) }

func impTemplate() *game.EnemyTemplate {
	return &game.EnemyTemplate{
		ID: 1, Name: "Crimson Imp",
		Base:             game.StatBlock{Hp: 60, Mp: 20, Attack: 10, Defense: 6, Speed: 12},
		Growth:           game.StatGrowth{HpPerLevel: 5, MpPerLevel: 2, AttackPerLevel: 1, DefensePerLevel: 1, SpeedPerLevel: 1},
		ExperienceReward: 30, GoldReward: 15,
	}
}

func testOrchestrator() *Orchestrator {
	cat := stubCatalog{enemies: map[uint]*game.EnemyTemplate{1: impTemplate()}}
	return NewOrchestrator(cat, engine.NewBattleStateMachine(cat))
}

func combatRoom(number int, rtype game.RoomType, impCount int) game.DungeonRoom {
	enc := &game.DungeonEncounter{Name: fmt.Sprintf("room %d", number), Type: game.EncounterCombat}
	for i := 0; i < impCount; i++ {
		enc.Formation = append(enc.Formation, game.FormationSlot{Position: i, EnemyID: 1, Level: 1})
	}
	return game.DungeonRoom{Number: number, Type: rtype, Encounter: enc}
}

func fiveRoomDungeon() *game.Dungeon {
	return &game.Dungeon{
		ID: 1, Name: "Emberfall Depths",
		MinPartySize: 1, MaxPartySize: 4,
		Rooms: []game.DungeonRoom{
			combatRoom(1, game.RoomNormal, 2),
			combatRoom(2, game.RoomNormal, 2),
			combatRoom(3, game.RoomNormal, 3),
			combatRoom(4, game.RoomMiniboss, 1),
			combatRoom(5, game.RoomBoss, 1),
		},
	}
}

func fighterParty() []game.RosterEntry {
	return []game.RosterEntry{{
		Type:  game.ParticipantCharacter,
		RefID: 7, Name: "Goblin Fighter", Level: 2,
		Base:      game.StatBlock{Hp: 100, Mp: 30, Attack: 14, Defense: 12, Speed: 10},
		Growth:    game.StatGrowth{HpPerLevel: 10, MpPerLevel: 3, AttackPerLevel: 2, DefensePerLevel: 2, SpeedPerLevel: 1},
		CurrentHp: -1, CurrentMp: -1,
	}}
}

func startRun(t *testing.T, o *Orchestrator, d *game.Dungeon) *game.DungeonRun {
	t.Helper()
	run, err := o.StartRun(d, fighterParty(), 11, time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	run.ID = 1
	return run
}

// finishRoom builds the current room's battle and forces the given outcome,
// then feeds it back through ApplyBattleOutcome.
func finishRoom(t *testing.T, o *Orchestrator, d *game.Dungeon, run *game.DungeonRun, outcome game.BattleStatus) *game.Battle {
	t.Helper()
	b, err := o.BuildRoomBattle(d, run)
	if err != nil {
		t.Fatalf("BuildRoomBattle room %d: %v", run.CurrentRoom, err)
	}
	for i := range b.Participants {
		b.Participants[i].ID = uint(i + 1)
	}
	started := time.Unix(1700000000, 0)
	ended := started.Add(90 * time.Second)
	b.StartedAt = &started
	b.EndedAt = &ended
	b.Status = outcome

	switch outcome {
	case game.BattleVictory:
		for i := range b.Participants {
			if b.Participants[i].Type == game.ParticipantEnemy {
				b.Participants[i].CurrentHp = 0
				b.Participants[i].Status = game.StatusDead
				b.Rewards.Experience += b.Participants[i].ExperienceReward
				b.Rewards.Gold += b.Participants[i].GoldReward
			}
		}
	case game.BattleDefeat:
		for i := range b.Participants {
			if b.Participants[i].Type == game.ParticipantCharacter {
				b.Participants[i].CurrentHp = 0
				b.Participants[i].Status = game.StatusDead
			}
		}
	case game.BattleFled:
		b.FledBy = game.ParticipantCharacter
	}

	if err := o.ApplyBattleOutcome(d, run, b, ended); err != nil {
		t.Fatalf("ApplyBattleOutcome room %d: %v", b.RoomNumber, err)
	}
	return b
}

func TestStartRunValidatesParty(t *testing.T) {
	o := testOrchestrator()
	d := fiveRoomDungeon()
	d.MinPartySize = 2

	if _, err := o.StartRun(d, fighterParty(), 1, time.Now()); err == nil {
		t.Errorf("undersized party accepted")
	}

	d.MinPartySize = 1
	d.Requirements.MinCharacterLevel = 5
	if _, err := o.StartRun(d, fighterParty(), 1, time.Now()); err == nil {
		t.Errorf("underleveled party accepted")
	}

	d.Requirements.MinCharacterLevel = 0
	dead := fighterParty()
	dead[0].CurrentHp = 0
	if _, err := o.StartRun(d, dead, 1, time.Now()); err == nil {
		t.Errorf("dead character accepted")
	}
}

func TestBuildRoomBattleTypesAndEscape(t *testing.T) {
	o := testOrchestrator()
	d := fiveRoomDungeon()
	d.Rooms[0].Encounter.NoEscape = true
	run := startRun(t, o, d)

	b, err := o.BuildRoomBattle(d, run)
	if err != nil {
		t.Fatalf("BuildRoomBattle: %v", err)
	}
	if b.Type != game.BattleTypeDungeon {
		t.Errorf("type = %s, want dungeon", b.Type)
	}
	if b.Settings.AllowEscape {
		t.Errorf("escape allowed in a no-escape encounter")
	}
	if len(b.Participants) != 3 {
		t.Errorf("participants = %d, want party of 1 plus 2 imps", len(b.Participants))
	}

	run.CurrentRoom = 5
	boss, err := o.BuildRoomBattle(d, run)
	if err != nil {
		t.Fatalf("BuildRoomBattle boss: %v", err)
	}
	if boss.Type != game.BattleTypeBoss {
		t.Errorf("boss room type = %s, want boss", boss.Type)
	}
}

func TestPartyStateCarriesBetweenRooms(t *testing.T) {
	o := testOrchestrator()
	d := fiveRoomDungeon()
	run := startRun(t, o, d)

	b := finishRoom(t, o, d, run, game.BattleVictory)
	// Wound the fighter before the outcome sync to simulate battle damage.
	for i := range b.Participants {
		if b.Participants[i].Type == game.ParticipantCharacter {
			b.Participants[i].CurrentHp = 42
		}
	}
	o.syncParty(run, b)

	next, err := o.BuildRoomBattle(d, run)
	if err != nil {
		t.Fatalf("BuildRoomBattle: %v", err)
	}
	for i := range next.Participants {
		p := &next.Participants[i]
		if p.Type == game.ParticipantCharacter && p.CurrentHp != 42 {
			t.Errorf("hp = %d, want 42 carried into room 2", p.CurrentHp)
		}
	}
}

func TestFullClearCompletesRunWithScore(t *testing.T) {
	o := testOrchestrator()
	d := fiveRoomDungeon()
	run := startRun(t, o, d)

	for !game.RunTerminal(run.Status) {
		finishRoom(t, o, d, run, game.BattleVictory)
	}
	if run.Status != game.RunCompleted {
		t.Fatalf("status = %s, want completed", run.Status)
	}
	if got := len(run.Progress.RoomsCompleted); got != 5 {
		t.Errorf("rooms completed = %d, want 5", got)
	}
	if run.Progress.EnemiesDefeated != 9 || run.Progress.BattlesWon != 5 {
		t.Errorf("progress = %+v, want 9 enemies over 5 battles", run.Progress)
	}
	// 9 imps at 30 xp / 15 gold each.
	if run.Rewards.Experience != 270 || run.Rewards.Gold != 135 {
		t.Errorf("rewards = %+v, want 270 xp and 135 gold", run.Rewards)
	}
	if run.Score == 0 {
		t.Errorf("score not computed at completion")
	}
	if run.EndedAt == nil {
		t.Errorf("EndedAt not set")
	}
}

func TestDefeatMidRunFailsRun(t *testing.T) {
	o := testOrchestrator()
	d := fiveRoomDungeon()
	run := startRun(t, o, d)

	finishRoom(t, o, d, run, game.BattleVictory)
	finishRoom(t, o, d, run, game.BattleVictory)
	finishRoom(t, o, d, run, game.BattleDefeat)

	if run.Status != game.RunFailed {
		t.Fatalf("status = %s, want failed", run.Status)
	}
	want := []int{1, 2}
	if len(run.Progress.RoomsCompleted) != 2 || run.Progress.RoomsCompleted[0] != want[0] || run.Progress.RoomsCompleted[1] != want[1] {
		t.Errorf("rooms completed = %v, want %v", run.Progress.RoomsCompleted, want)
	}
	if run.Progress.BattlesLost != 1 {
		t.Errorf("battles lost = %d, want 1", run.Progress.BattlesLost)
	}
	if _, err := o.BuildRoomBattle(d, run); err == nil {
		t.Errorf("terminal run still builds battles")
	}
}

func TestPartyFleeAbandonsRun(t *testing.T) {
	o := testOrchestrator()
	d := fiveRoomDungeon()
	run := startRun(t, o, d)

	finishRoom(t, o, d, run, game.BattleFled)
	if run.Status != game.RunAbandoned {
		t.Errorf("status = %s, want abandoned after a party flee", run.Status)
	}
}

func TestPermadeathMarksLosses(t *testing.T) {
	o := testOrchestrator()
	d := fiveRoomDungeon()
	d.Permadeath = true
	run := startRun(t, o, d)

	finishRoom(t, o, d, run, game.BattleDefeat)
	if run.Status != game.RunFailed {
		t.Fatalf("status = %s, want failed", run.Status)
	}
	if !run.Party[0].Lost {
		t.Errorf("fallen character not marked lost on a permadeath run")
	}
	if len(run.Rewards.CharactersLost) != 1 || run.Rewards.CharactersLost[0] != 7 {
		t.Errorf("characters lost = %v, want [7]", run.Rewards.CharactersLost)
	}
}

func TestVictoryWithNoSurvivorsFailsRun(t *testing.T) {
	o := testOrchestrator()
	d := fiveRoomDungeon()
	d.Permadeath = true
	run := startRun(t, o, d)

	b, err := o.BuildRoomBattle(d, run)
	if err != nil {
		t.Fatalf("BuildRoomBattle: %v", err)
	}
	for i := range b.Participants {
		b.Participants[i].ID = uint(i + 1)
		b.Participants[i].CurrentHp = 0
		b.Participants[i].Status = game.StatusDead
	}
	started := time.Unix(1700000000, 0)
	ended := started.Add(90 * time.Second)
	b.StartedAt = &started
	b.EndedAt = &ended
	// Poison can drop the last fighter on the same round the final enemy
	// falls, leaving a won battle with nobody standing.
	b.Status = game.BattleVictory

	if err := o.ApplyBattleOutcome(d, run, b, ended); err != nil {
		t.Fatalf("ApplyBattleOutcome: %v", err)
	}
	if run.Status != game.RunFailed {
		t.Fatalf("status = %s, want failed when the win empties the party", run.Status)
	}
	if run.EndedAt == nil || run.CurrentBattleID != 0 {
		t.Errorf("run not closed out: ended %v battle %d", run.EndedAt, run.CurrentBattleID)
	}
	if !run.Party[0].Lost {
		t.Errorf("fallen character not marked lost")
	}
	if len(run.Progress.RoomsCompleted) != 1 || run.Progress.RoomsCompleted[0] != 1 {
		t.Errorf("rooms completed = %v, want the won room on record", run.Progress.RoomsCompleted)
	}
	if _, err := o.BuildRoomBattle(d, run); err == nil {
		t.Errorf("terminal run still builds battles")
	}
}

func TestNonPermadeathKeepsCharacters(t *testing.T) {
	o := testOrchestrator()
	d := fiveRoomDungeon()
	run := startRun(t, o, d)

	finishRoom(t, o, d, run, game.BattleDefeat)
	if run.Party[0].Lost {
		t.Errorf("character marked lost on a standard run")
	}
	if len(run.Rewards.CharactersLost) != 0 {
		t.Errorf("characters lost = %v, want none", run.Rewards.CharactersLost)
	}
}

func TestRestRoomHealsSurvivors(t *testing.T) {
	o := testOrchestrator()
	d := &game.Dungeon{
		ID: 2, Name: "Short Crawl", MinPartySize: 1, MaxPartySize: 4,
		Rooms: []game.DungeonRoom{
			combatRoom(1, game.RoomNormal, 1),
			{Number: 2, Type: game.RoomRest, Name: "Campfire"},
			combatRoom(3, game.RoomBoss, 1),
		},
	}
	run := startRun(t, o, d)

	b := finishRoom(t, o, d, run, game.BattleVictory)
	_ = b
	if run.CurrentRoom != 3 {
		t.Fatalf("current room = %d, want rest room auto-passed to 3", run.CurrentRoom)
	}
	// Level 2 fighter: 100 + 10 growth.
	if run.Party[0].CurrentHp != 110 || run.Party[0].CurrentMp != 33 {
		t.Errorf("party hp/mp = %d/%d, want fully rested 110/33", run.Party[0].CurrentHp, run.Party[0].CurrentMp)
	}
}

func TestAbandonRun(t *testing.T) {
	o := testOrchestrator()
	d := fiveRoomDungeon()
	run := startRun(t, o, d)

	if err := o.Abandon(run, time.Now()); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if run.Status != game.RunAbandoned || run.EndedAt == nil {
		t.Errorf("run = %s ended %v, want abandoned with end time", run.Status, run.EndedAt)
	}
	if err := o.Abandon(run, time.Now()); err == nil {
		t.Errorf("second abandon accepted")
	}
}
