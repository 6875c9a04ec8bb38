package game

import (
	"time"

	"gorm.io/gorm"
)

// StatBlock is an effective-stat bundle. Base values come from the catalog
// templates; the engine resolves one of these per participant at battle start
// and never re-fetches mid-battle.
type StatBlock struct {
	Hp              int     `json:"hp" yaml:"hp"`
	Mp              int     `json:"mp" yaml:"mp"`
	Attack          int     `json:"attack" yaml:"attack"`
	Defense         int     `json:"defense" yaml:"defense"`
	Speed           int     `json:"speed" yaml:"speed"`
	MagicPower      int     `json:"magic_power" yaml:"magic_power"`
	MagicResistance int     `json:"magic_resistance" yaml:"magic_resistance"`
	CriticalRate    float64 `json:"critical_rate" yaml:"critical_rate"`
	CriticalDamage  float64 `json:"critical_damage" yaml:"critical_damage"`
	Evasion         float64 `json:"evasion" yaml:"evasion"`
	Accuracy        float64 `json:"accuracy" yaml:"accuracy"`
}

// StatModifiers are additive overrides layered on top of a participant's
// resolved stats. DefenseMultiplier is the defend-stance hook: values above
// 1 divide incoming damage (2 halves it) until the stance expires.
type StatModifiers struct {
	Attack            int     `json:"attack"`
	Defense           int     `json:"defense"`
	Speed             int     `json:"speed"`
	MagicPower        int     `json:"magic_power"`
	MagicResistance   int     `json:"magic_resistance"`
	CriticalRate      float64 `json:"critical_rate"`
	Evasion           float64 `json:"evasion"`
	Accuracy          float64 `json:"accuracy"`
	DefenseMultiplier float64 `json:"defense_multiplier"`
}

// StatusEffect is one timed effect instance attached to a participant.
// Instances of the same type from different sources stack independently
// unless the originating definition marks the effect exclusive.
type StatusEffect struct {
	Type      StatusEffectType `json:"type"`
	Value     int              `json:"value"`
	Duration  int              `json:"duration"`
	Source    string           `json:"source"`
	Exclusive bool             `json:"exclusive"`
}

// OwnedItem is a consumable stack carried into battle.
type OwnedItem struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// RosterEntry is the immutable per-battle view of a character or enemy,
// assembled once at battle start. The engine never reaches back into the
// roster store while a battle is live.
type RosterEntry struct {
	Type        ParticipantType `json:"type"`
	RefID       uint            `json:"ref_id"`
	Name        string          `json:"name"`
	Level       int             `json:"level"`
	Position    int             `json:"position"`
	Base        StatBlock       `json:"base"`
	Growth      StatGrowth      `json:"growth"`
	CurrentHp   int             `json:"current_hp"` // -1 means start at max
	CurrentMp   int             `json:"current_mp"` // -1 means start at max
	SkillIDs    []uint          `json:"skill_ids"`
	Equipment   []Item          `json:"equipment"`
	Consumables []OwnedItem     `json:"consumables"`
	Resistances map[Element]int `json:"resistances,omitempty"`
	Weaknesses  map[Element]int `json:"weaknesses,omitempty"`
	AI          *AIBehavior     `json:"ai,omitempty"`

	// Reward data copied from the enemy template so the battle can compute
	// rewards without a catalog round-trip at termination time.
	ExperienceReward int        `json:"experience_reward,omitempty"`
	GoldReward       int        `json:"gold_reward,omitempty"`
	Drops            []DropSpec `json:"drops,omitempty"`
}

// BattleParticipant is the mutable battle-scoped state for one combatant.
// It references its roster character or enemy template by id only.
type BattleParticipant struct {
	gorm.Model
	BattleID uint `json:"-"`

	Type   ParticipantType   `json:"type"`
	Status ParticipantStatus `json:"status"`
	Name   string            `json:"name"`
	RefID  uint              `json:"ref_id"`
	Level  int               `json:"level"`

	Position  int `json:"position"` // battlefield slot, 0-5
	CurrentHp int `json:"current_hp"`
	CurrentMp int `json:"current_mp"`
	MaxHp     int `json:"max_hp"`
	MaxMp     int `json:"max_mp"`

	Initiative float64 `json:"initiative"`
	TurnOrder  int     `json:"turn_order"`

	Stats          StatBlock       `json:"stats" gorm:"serializer:json"`
	TemporaryStats StatModifiers   `json:"temporary_stats" gorm:"serializer:json"`
	StatusEffects  []StatusEffect  `json:"status_effects" gorm:"serializer:json"`
	Cooldowns      map[uint]int    `json:"cooldowns" gorm:"serializer:json"`
	SkillIDs       []uint          `json:"skill_ids" gorm:"serializer:json"`
	Consumables    []OwnedItem     `json:"consumables" gorm:"serializer:json"`
	Resistances    map[Element]int `json:"resistances" gorm:"serializer:json"`
	Weaknesses     map[Element]int `json:"weaknesses" gorm:"serializer:json"`
	AI             *AIBehavior     `json:"ai,omitempty" gorm:"serializer:json"`

	ExperienceReward int        `json:"-"`
	GoldReward       int        `json:"-"`
	Drops            []DropSpec `json:"-" gorm:"serializer:json"`
}

func (BattleParticipant) TableName() string { return "battle_participants" }

// AppliedEffect records one status effect an action attached to a target.
type AppliedEffect struct {
	Type     StatusEffectType `json:"type"`
	Value    int              `json:"value"`
	Duration int              `json:"duration"`
	Target   uint             `json:"target"`
}

// ActionResult is the categorical outcome of one resolved action.
type ActionResult struct {
	Success       bool          `json:"success"`
	Critical      bool          `json:"critical"`
	Missed        bool          `json:"missed"`
	Blocked       bool          `json:"blocked"`
	Effectiveness Effectiveness `json:"effectiveness"`
}

// BattleAction is one resolved act. Immutable once recorded; the battle
// keeps an append-only history of them inside its turns.
type BattleAction struct {
	gorm.Model
	BattleID uint `json:"-"`
	TurnID   uint `json:"-"`

	ActionType    ActionType   `json:"action_type"`
	Target        ActionTarget `json:"target"`
	ParticipantID uint         `json:"participant_id"`
	TargetID      uint         `json:"target_id,omitempty"`
	SkillID       uint         `json:"skill_id,omitempty"`
	ItemID        uint         `json:"item_id,omitempty"`
	ActionOrder   int          `json:"action_order"`

	Damage  int `json:"damage"`
	Healing int `json:"healing"`

	Effects   []AppliedEffect `json:"effects" gorm:"serializer:json"`
	Result    ActionResult    `json:"result" gorm:"serializer:json"`
	CombatLog []string        `json:"combat_log" gorm:"serializer:json"`
}

func (BattleAction) TableName() string { return "battle_actions" }

// TurnSlot is one entry of a round's initiative order. Participants that
// cannot act still appear here and are recorded as a pass at resolution.
type TurnSlot struct {
	ParticipantID uint    `json:"participant_id"`
	Initiative    float64 `json:"initiative"`
	Order         int     `json:"order"`
}

// TurnSummary aggregates what happened during one round.
type TurnSummary struct {
	TotalDamage    int `json:"total_damage"`
	TotalHealing   int `json:"total_healing"`
	Kills          int `json:"kills"`
	EffectsApplied int `json:"effects_applied"`
}

// BattleTurn is one fully-ordered round. A round is terminal once every
// eligible participant has acted or been skipped.
type BattleTurn struct {
	gorm.Model
	BattleID uint `json:"-"`

	Number    int            `json:"number"`
	Status    TurnStatus     `json:"status"`
	TurnOrder []TurnSlot     `json:"turn_order" gorm:"serializer:json"`
	Actions   []BattleAction `json:"actions" gorm:"foreignKey:TurnID"`
	Summary   TurnSummary    `json:"summary" gorm:"serializer:json"`
}

func (BattleTurn) TableName() string { return "battle_turns" }

// BattleSettings tune a single encounter. Zero MaxTurns/TimeLimit mean
// unlimited; TimeLimit is wall-clock seconds checked at round boundaries.
type BattleSettings struct {
	MaxTurns    int  `json:"max_turns"`
	TimeLimit   int  `json:"time_limit"`
	AllowEscape bool `json:"allow_escape"`
	Difficulty  int  `json:"difficulty"`
}

// ItemQuantity is a reward line: n units of one item.
type ItemQuantity struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// BattleRewards is the computed payout of a victorious battle.
type BattleRewards struct {
	Experience int            `json:"experience"`
	Gold       int            `json:"gold"`
	Items      []ItemQuantity `json:"items,omitempty"`
}

// PendingAction stages a player-submitted action until the round resolves.
type PendingAction struct {
	ParticipantID uint       `json:"participant_id"`
	Type          ActionType `json:"type"`
	SkillID       uint       `json:"skill_id,omitempty"`
	ItemID        uint       `json:"item_id,omitempty"`
	TargetID      uint       `json:"target_id,omitempty"`
}

// Battle is one encounter. It exclusively owns its turns, actions and
// participants; they are cascade-deleted with it.
type Battle struct {
	gorm.Model
	PublicID string `json:"public_id" gorm:"uniqueIndex;size:36"`

	Status BattleStatus `json:"status"`
	Type   BattleType   `json:"type"`
	Seed   int64        `json:"-"`

	Settings    BattleSettings `json:"settings" gorm:"serializer:json"`
	CurrentTurn int            `json:"current_turn"`

	Participants []BattleParticipant `json:"participants" gorm:"foreignKey:BattleID;constraint:OnDelete:CASCADE"`
	Turns        []BattleTurn        `json:"turns" gorm:"foreignKey:BattleID;constraint:OnDelete:CASCADE"`

	PendingActions []PendingAction `json:"pending_actions" gorm:"serializer:json"`

	Rewards BattleRewards `json:"rewards" gorm:"serializer:json"`

	// FledBy records which side a successful flee belonged to; the run
	// orchestrator maps a party flee to an abandoned run.
	FledBy ParticipantType `json:"fled_by,omitempty"`

	DungeonRunID uint `json:"dungeon_run_id,omitempty" gorm:"index"`
	RoomNumber   int  `json:"room_number,omitempty"`

	ActionDeadline time.Time  `json:"action_deadline"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
}

func (Battle) TableName() string { return "battles" }

// PartyMember mirrors one character's field state between rooms of a run.
type PartyMember struct {
	CharacterID uint              `json:"character_id"`
	Position    int               `json:"position"`
	CurrentHp   int               `json:"current_hp"`
	CurrentMp   int               `json:"current_mp"`
	Status      ParticipantStatus `json:"status"`
	Lost        bool              `json:"lost"` // permadeath: excluded from later rooms
}

// RunProgress carries the aggregate counters of one dungeon attempt.
type RunProgress struct {
	RoomsCompleted   []int `json:"rooms_completed"`
	EnemiesDefeated  int   `json:"enemies_defeated"`
	BattlesWon       int   `json:"battles_won"`
	BattlesLost      int   `json:"battles_lost"`
	TotalDamage      int   `json:"total_damage"`
	TotalDamageTaken int   `json:"total_damage_taken"`
}

// RunRewards accumulates payouts across the rooms of a run.
type RunRewards struct {
	Experience     int            `json:"experience"`
	Gold           int            `json:"gold"`
	Items          []ItemQuantity `json:"items,omitempty"`
	CharactersLost []uint         `json:"characters_lost,omitempty"`
}

// BattleRecord is one line of a run's battle history, referencing the
// battle by id rather than embedding it.
type BattleRecord struct {
	RoomNumber int          `json:"room_number"`
	BattleID   uint         `json:"battle_id"`
	Result     BattleStatus `json:"result"`
	Duration   int          `json:"duration"` // seconds
}

// DungeonRun is one player's attempt at a dungeon. The run exclusively owns
// its party snapshot for its duration; the roster store is reconciled only
// at run completion.
type DungeonRun struct {
	gorm.Model
	PublicID string `json:"public_id" gorm:"uniqueIndex;size:36"`

	DungeonID uint      `json:"dungeon_id"`
	Status    RunStatus `json:"status"`
	Seed      int64     `json:"-"`

	CurrentRoom  int  `json:"current_room"`
	IsPermadeath bool `json:"is_permadeath"`

	Party         []PartyMember  `json:"party" gorm:"serializer:json"`
	PartySnapshot []RosterEntry  `json:"-" gorm:"serializer:json"`
	Progress      RunProgress    `json:"progress" gorm:"serializer:json"`
	Rewards       RunRewards     `json:"rewards" gorm:"serializer:json"`
	BattleHistory []BattleRecord `json:"battle_history" gorm:"serializer:json"`

	Score int `json:"score"`

	// CurrentBattleID points at the in-flight room battle, if any.
	CurrentBattleID uint `json:"current_battle_id,omitempty"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

func (DungeonRun) TableName() string { return "dungeon_runs" }

// Character is a persistent roster entry owned by a player. Battle and run
// results are written back here once, at completion.
type Character struct {
	gorm.Model
	UserID     uint   `json:"-" gorm:"index"`
	Name       string `json:"name"`
	TemplateID uint   `json:"template_id"`

	Level      int  `json:"level"`
	Experience int  `json:"experience"`
	Gold       int  `json:"gold"`
	CurrentHp  int  `json:"current_hp"`
	CurrentMp  int  `json:"current_mp"`
	IsAlive    bool `json:"is_alive"`

	SkillIDs    []uint      `json:"skill_ids" gorm:"serializer:json"`
	EquipmentID []uint      `json:"equipment" gorm:"serializer:json"`
	Consumables []OwnedItem `json:"consumables" gorm:"serializer:json"`
}

func (Character) TableName() string { return "characters" }
