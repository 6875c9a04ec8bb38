package game

import "testing"

func participant(id uint, ptype ParticipantType, status ParticipantStatus, hp int) BattleParticipant {
	p := BattleParticipant{Type: ptype, Status: status, CurrentHp: hp, MaxHp: 100}
	p.ID = id
	return p
}

func TestCanAct(t *testing.T) {
	cases := []struct {
		name   string
		status ParticipantStatus
		hp     int
		want   bool
	}{
		{"active", StatusActive, 50, true},
		{"poisoned still acts", StatusPoisoned, 50, true},
		{"confused still scheduled", StatusConfused, 50, true},
		{"stunned", StatusStunned, 50, false},
		{"sleeping", StatusSleeping, 50, false},
		{"dead", StatusDead, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := participant(1, ParticipantCharacter, tc.status, tc.hp)
			if got := CanAct(&p); got != tc.want {
				t.Errorf("CanAct = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLivingOfType(t *testing.T) {
	b := &Battle{Participants: []BattleParticipant{
		participant(1, ParticipantCharacter, StatusActive, 50),
		participant(2, ParticipantEnemy, StatusActive, 50),
		participant(3, ParticipantEnemy, StatusDead, 0),
	}}
	if got := len(LivingOfType(b, ParticipantEnemy)); got != 1 {
		t.Errorf("living enemies = %d, want 1", got)
	}
	if got := len(LivingOfType(b, ParticipantCharacter)); got != 1 {
		t.Errorf("living characters = %d, want 1", got)
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []BattleStatus{BattleVictory, BattleDefeat, BattleFled} {
		if !Terminal(s) {
			t.Errorf("Terminal(%s) = false", s)
		}
	}
	for _, s := range []BattleStatus{BattlePending, BattleActive} {
		if Terminal(s) {
			t.Errorf("Terminal(%s) = true", s)
		}
	}
	for _, s := range []RunStatus{RunCompleted, RunFailed, RunAbandoned} {
		if !RunTerminal(s) {
			t.Errorf("RunTerminal(%s) = false", s)
		}
	}
	if RunTerminal(RunInProgress) {
		t.Errorf("RunTerminal(in_progress) = true")
	}
}
