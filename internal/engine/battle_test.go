package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/gloomdelve/server/internal/game"
)

func duelRoster(impHp int) []game.RosterEntry {
	return []game.RosterEntry{
		{
			Type:  game.ParticipantCharacter,
			RefID: 1, Name: "Goblin Fighter", Level: 1,
			Base:      game.StatBlock{Hp: 100, Mp: 30, Attack: 14, Defense: 12, Speed: 10},
			CurrentHp: -1, CurrentMp: -1,
		},
		{
			Type:  game.ParticipantEnemy,
			RefID: 1, Name: "Crimson Imp", Level: 1, Position: 1,
			Base:      game.StatBlock{Hp: 60, Mp: 20, Attack: 10, Defense: 6, Speed: 12, MagicPower: 8},
			CurrentHp: impHp, CurrentMp: -1,
			SkillIDs:         []uint{3},
			Resistances:      map[game.Element]int{game.ElementFire: 50},
			Weaknesses:       map[game.Element]int{game.ElementHoly: 50},
			ExperienceReward: 30,
			GoldReward:       15,
		},
	}
}

func fireballCatalog() stubCatalog {
	return stubCatalog{skills: map[uint]*game.Skill{
		3: {
			ID: 3, Name: "Fireball", Type: game.SkillActive, Target: game.TargetSingleEnemy,
			DamageType: game.DamageMagical, Element: game.ElementFire, MpCost: 12, Power: 130,
			Scaling: game.SkillScaling{MagicPowerPercent: 100},
		},
	}}
}

func startedDuel(t *testing.T, seed int64, impHp int, settings game.BattleSettings) (*BattleStateMachine, *game.Battle) {
	t.Helper()
	machine := NewBattleStateMachine(fireballCatalog())
	b, err := machine.NewBattle(duelRoster(impHp), game.BattleTypeRandom, settings, seed)
	if err != nil {
		t.Fatalf("NewBattle: %v", err)
	}
	for i := range b.Participants {
		b.Participants[i].ID = uint(i + 1)
	}
	if err := machine.Start(b, time.Unix(1700000000, 0)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return machine, b
}

func playOut(t *testing.T, machine *BattleStateMachine, b *game.Battle, maxRounds int) {
	t.Helper()
	for round := 0; round < maxRounds && !game.Terminal(b.Status); round++ {
		err := machine.SubmitAction(b, ActionRequest{ActorID: 1, Type: game.ActionAttack, TargetID: 2})
		if err != nil {
			t.Fatalf("round %d SubmitAction: %v", round+1, err)
		}
		if _, err := machine.ResolveRound(b, time.Unix(1700000000, 0)); err != nil {
			t.Fatalf("round %d ResolveRound: %v", round+1, err)
		}
	}
}

func combatLogs(b *game.Battle) [][]string {
	var out [][]string
	for _, turn := range b.Turns {
		for _, a := range turn.Actions {
			out = append(out, a.CombatLog)
		}
	}
	return out
}

func TestBattleIsDeterministicPerSeed(t *testing.T) {
	m1, b1 := startedDuel(t, 424242, -1, game.BattleSettings{MaxTurns: 30})
	playOut(t, m1, b1, 30)
	m2, b2 := startedDuel(t, 424242, -1, game.BattleSettings{MaxTurns: 30})
	playOut(t, m2, b2, 30)

	if b1.Status != b2.Status || b1.CurrentTurn != b2.CurrentTurn {
		t.Fatalf("outcomes differ: %s/%d vs %s/%d", b1.Status, b1.CurrentTurn, b2.Status, b2.CurrentTurn)
	}
	if !reflect.DeepEqual(combatLogs(b1), combatLogs(b2)) {
		t.Errorf("same seed produced different combat logs")
	}
}

func TestRoundWaitsForAllPlayerActions(t *testing.T) {
	machine, b := startedDuel(t, 7, -1, game.BattleSettings{MaxTurns: 30})

	if _, err := machine.ResolveRound(b, time.Now()); err == nil {
		t.Fatalf("ResolveRound succeeded with no actions staged")
	}
	if err := machine.SubmitAction(b, ActionRequest{ActorID: 1, Type: game.ActionDefend}); err != nil {
		t.Fatalf("SubmitAction: %v", err)
	}
	err := machine.SubmitAction(b, ActionRequest{ActorID: 1, Type: game.ActionAttack, TargetID: 2})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("duplicate submission err = %v, want ValidationError", err)
	}
	if !machine.Ready(b) {
		t.Fatalf("Ready = false with every eligible action staged")
	}
	turn, err := machine.ResolveRound(b, time.Now())
	if err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}
	if turn.Number != 1 || b.CurrentTurn != 1 {
		t.Errorf("turn = %d current = %d, want 1", turn.Number, b.CurrentTurn)
	}
	if len(b.PendingActions) != 0 {
		t.Errorf("pending actions not cleared after resolution")
	}
}

func TestEnemyActsWithoutSubmission(t *testing.T) {
	machine, b := startedDuel(t, 7, -1, game.BattleSettings{MaxTurns: 30})
	if err := machine.SubmitAction(b, ActionRequest{ActorID: 2, Type: game.ActionAttack, TargetID: 1}); err == nil {
		t.Fatalf("enemy submission accepted, want rejection")
	}

	if err := machine.SubmitAction(b, ActionRequest{ActorID: 1, Type: game.ActionDefend}); err != nil {
		t.Fatalf("SubmitAction: %v", err)
	}
	turn, err := machine.ResolveRound(b, time.Now())
	if err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}
	found := false
	for _, a := range turn.Actions {
		if a.ParticipantID == 2 && a.ActionType != game.ActionPass {
			found = true
		}
	}
	if !found {
		t.Errorf("enemy took no action during the round")
	}
}

func TestVictoryPaysRewards(t *testing.T) {
	machine, b := startedDuel(t, 5, 5, game.BattleSettings{MaxTurns: 30})
	playOut(t, machine, b, 10)

	if b.Status != game.BattleVictory {
		t.Fatalf("status = %s, want victory over a 5 HP imp", b.Status)
	}
	if b.Rewards.Experience != 30 || b.Rewards.Gold != 15 {
		t.Errorf("rewards = %+v, want 30 xp and 15 gold", b.Rewards)
	}
	if b.EndedAt == nil {
		t.Errorf("EndedAt not set on a terminal battle")
	}
}

func TestMaxTurnsEndsInDefeat(t *testing.T) {
	machine, b := startedDuel(t, 7, -1, game.BattleSettings{MaxTurns: 1})
	playOut(t, machine, b, 1)
	if game.Terminal(b.Status) {
		t.Fatalf("duel ended inside one round, cannot exercise the boundary")
	}

	if err := machine.SubmitAction(b, ActionRequest{ActorID: 1, Type: game.ActionDefend}); err != nil {
		t.Fatalf("SubmitAction: %v", err)
	}
	if _, err := machine.ResolveRound(b, time.Now()); err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}
	if b.Status != game.BattleDefeat {
		t.Errorf("status = %s, want defeat at the turn limit", b.Status)
	}
}

func TestSubmitAfterTerminalRejected(t *testing.T) {
	machine, b := startedDuel(t, 5, 5, game.BattleSettings{MaxTurns: 30})
	playOut(t, machine, b, 10)
	if !game.Terminal(b.Status) {
		t.Fatalf("battle still running")
	}

	err := machine.SubmitAction(b, ActionRequest{ActorID: 1, Type: game.ActionAttack, TargetID: 2})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("err = %v, want ValidationError after terminal state", err)
	}
}

func TestFillMissingActionsPasses(t *testing.T) {
	machine, b := startedDuel(t, 7, -1, game.BattleSettings{MaxTurns: 30})
	machine.FillMissingActions(b)
	if !machine.Ready(b) {
		t.Fatalf("Ready = false after auto-fill")
	}
	turn, err := machine.ResolveRound(b, time.Now())
	if err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}
	foundPass := false
	for _, a := range turn.Actions {
		if a.ParticipantID == 1 && a.ActionType == game.ActionPass {
			foundPass = true
		}
	}
	if !foundPass {
		t.Errorf("auto-filled player turn was not recorded as a pass")
	}
}
