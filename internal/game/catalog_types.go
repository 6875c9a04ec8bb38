package game

// Catalog value objects. These are read-mostly templates loaded from the
// game-data file at startup and validated there; the engine consumes them
// as plain data and never mutates them.

// StatGrowth is the per-level increment applied on top of a template's base
// stats. Templates without growth data cannot enter battle above level 1.
type StatGrowth struct {
	HpPerLevel      int `json:"hp_per_level" yaml:"hp_per_level"`
	MpPerLevel      int `json:"mp_per_level" yaml:"mp_per_level"`
	AttackPerLevel  int `json:"attack_per_level" yaml:"attack_per_level"`
	DefensePerLevel int `json:"defense_per_level" yaml:"defense_per_level"`
	SpeedPerLevel   int `json:"speed_per_level" yaml:"speed_per_level"`
}

// Empty reports whether no growth data is present at all.
func (g StatGrowth) Empty() bool {
	return g == StatGrowth{}
}

// SkillScaling maps a skill's damage or healing onto the actor's stats,
// in percent. A 150 attack_percent skill hits with 1.5x the actor's attack
// before the power factor.
type SkillScaling struct {
	AttackPercent     int `json:"attack_percent" yaml:"attack_percent"`
	MagicPowerPercent int `json:"magic_power_percent" yaml:"magic_power_percent"`
	HpPercent         int `json:"hp_percent" yaml:"hp_percent"`
}

// EffectSpec describes a status effect a skill or item may attach.
// Chance is 0-100; zero means always. Exclusive effects replace any existing
// instance of the same type instead of stacking.
type EffectSpec struct {
	Type      StatusEffectType `json:"type" yaml:"type"`
	Value     int              `json:"value" yaml:"value"`
	Duration  int              `json:"duration" yaml:"duration"`
	Chance    int              `json:"chance" yaml:"chance"`
	Exclusive bool             `json:"exclusive" yaml:"exclusive"`
}

// Skill is a catalog skill definition.
type Skill struct {
	ID            uint         `json:"id" yaml:"id"`
	Name          string       `json:"name" yaml:"name"`
	Description   string       `json:"description" yaml:"description"`
	Type          SkillType    `json:"type" yaml:"type"`
	Target        ActionTarget `json:"target" yaml:"target"`
	DamageType    DamageType   `json:"damage_type" yaml:"damage_type"`
	Element       Element      `json:"element" yaml:"element"`
	MpCost        int          `json:"mp_cost" yaml:"mp_cost"`
	Power         int          `json:"power" yaml:"power"`
	Cooldown      int          `json:"cooldown" yaml:"cooldown"`
	RequiredLevel int          `json:"required_level" yaml:"required_level"`
	IsUltimate    bool         `json:"is_ultimate" yaml:"is_ultimate"`
	Scaling       SkillScaling `json:"scaling" yaml:"scaling"`
	Effects       []EffectSpec `json:"effects" yaml:"effects"`

	// AllowDeadTarget opens the target set to dead participants (revive).
	AllowDeadTarget bool `json:"allow_dead_target" yaml:"allow_dead_target"`
}

// ConsumableEffect is what an item does when consumed in battle.
type ConsumableEffect struct {
	HealHp        int         `json:"heal_hp" yaml:"heal_hp"`
	HealMp        int         `json:"heal_mp" yaml:"heal_mp"`
	Revive        bool        `json:"revive" yaml:"revive"`
	TemporaryBuff *EffectSpec `json:"temporary_buff,omitempty" yaml:"temporary_buff"`
}

// Item is a catalog item definition. Equippable items contribute their
// Stats bundle to the snapshot at battle start; consumables carry a
// ConsumableEffect applied through the same pipeline as skill effects.
type Item struct {
	ID               uint              `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Description      string            `json:"description" yaml:"description"`
	Type             ItemType          `json:"type" yaml:"type"`
	Stats            StatBlock         `json:"stats" yaml:"stats"`
	ConsumableEffect *ConsumableEffect `json:"consumable_effect,omitempty" yaml:"consumable_effect"`
	MaxStack         int               `json:"max_stack" yaml:"max_stack"`
	BaseValue        int               `json:"base_value" yaml:"base_value"`
}

// AIBehavior is the per-template decision policy for enemy participants.
type AIBehavior struct {
	Aggression     int              `json:"aggression" yaml:"aggression"` // 0-100
	TargetPriority AIPriority       `json:"target_priority" yaml:"target_priority"`
	SkillUsage     SkillUsagePolicy `json:"skill_usage" yaml:"skill_usage"`
	FleeThreshold  float64          `json:"flee_threshold" yaml:"flee_threshold"` // 0 disables fleeing
	Coordination   int              `json:"coordination" yaml:"coordination"`     // 0-100
}

// DropSpec is one possible item drop from a defeated enemy.
type DropSpec struct {
	ItemID      uint `json:"item_id" yaml:"item_id"`
	Chance      int  `json:"chance" yaml:"chance"` // 0-100
	MinQuantity int  `json:"min_quantity" yaml:"min_quantity"`
	MaxQuantity int  `json:"max_quantity" yaml:"max_quantity"`
}

// CharacterTemplate is a playable archetype.
type CharacterTemplate struct {
	ID             uint       `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	Class          string     `json:"class" yaml:"class"`
	Description    string     `json:"description" yaml:"description"`
	Base           StatBlock  `json:"base" yaml:"base"`
	Growth         StatGrowth `json:"growth" yaml:"growth"`
	StartingSkills []uint     `json:"starting_skills" yaml:"starting_skills"`
	Rarity         int        `json:"rarity" yaml:"rarity"`
}

// EnemyTemplate is a computer-controlled archetype, including its rewards
// and decision policy.
type EnemyTemplate struct {
	ID          uint       `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Class       string     `json:"class" yaml:"class"`
	Description string     `json:"description" yaml:"description"`
	Base        StatBlock  `json:"base" yaml:"base"`
	Growth      StatGrowth `json:"growth" yaml:"growth"`
	MinLevel    int        `json:"min_level" yaml:"min_level"`
	MaxLevel    int        `json:"max_level" yaml:"max_level"`
	IsBoss      bool       `json:"is_boss" yaml:"is_boss"`

	ExperienceReward int        `json:"experience_reward" yaml:"experience_reward"`
	GoldReward       int        `json:"gold_reward" yaml:"gold_reward"`
	Drops            []DropSpec `json:"drops" yaml:"drops"`

	Resistances map[Element]int `json:"resistances" yaml:"resistances"`
	Weaknesses  map[Element]int `json:"weaknesses" yaml:"weaknesses"`

	SkillIDs []uint     `json:"skill_ids" yaml:"skill_ids"`
	AI       AIBehavior `json:"ai" yaml:"ai"`
}

// FormationSlot places one enemy in a room encounter.
type FormationSlot struct {
	Position int  `json:"position" yaml:"position"` // 0-5
	EnemyID  uint `json:"enemy_id" yaml:"enemy_id"`
	Level    int  `json:"level" yaml:"level"`
}

// DungeonEncounter is a room's combat template. The engine consumes it;
// victory/defeat evaluation lives in the battle state machine.
type DungeonEncounter struct {
	Name      string          `json:"name" yaml:"name"`
	Type      EncounterType   `json:"type" yaml:"type"`
	Formation []FormationSlot `json:"formation" yaml:"formation"`
	AI        *AIBehavior     `json:"ai,omitempty" yaml:"ai"` // overrides per-template policy
	NoEscape  bool            `json:"no_escape" yaml:"no_escape"`

	Experience int            `json:"experience" yaml:"experience"`
	Gold       int            `json:"gold" yaml:"gold"`
	Items      []ItemQuantity `json:"items" yaml:"items"`
}

// DungeonRoom is one room of a dungeon layout. Non-combat room types
// (rest, treasure) have no encounter.
type DungeonRoom struct {
	Number    int               `json:"number" yaml:"number"`
	Type      RoomType          `json:"type" yaml:"type"`
	Name      string            `json:"name" yaml:"name"`
	Encounter *DungeonEncounter `json:"encounter,omitempty" yaml:"encounter"`

	Experience int            `json:"experience" yaml:"experience"`
	Gold       int            `json:"gold" yaml:"gold"`
	Items      []ItemQuantity `json:"items" yaml:"items"`
}

// DungeonRequirements gate entry to a dungeon.
type DungeonRequirements struct {
	MinCharacterLevel int            `json:"min_character_level" yaml:"min_character_level"`
	GoldCost          int            `json:"gold_cost" yaml:"gold_cost"`
	RequiredItems     []ItemQuantity `json:"required_items" yaml:"required_items"`
}

// DungeonRewards scale the per-room payouts by dungeon difficulty.
type DungeonRewards struct {
	BaseExperience       int     `json:"base_experience" yaml:"base_experience"`
	BaseGold             int     `json:"base_gold" yaml:"base_gold"`
	ExperienceMultiplier float64 `json:"experience_multiplier" yaml:"experience_multiplier"`
	GoldMultiplier       float64 `json:"gold_multiplier" yaml:"gold_multiplier"`
}

// Dungeon is a full dungeon template: five rooms by convention, three
// normal fights, a miniboss and a boss.
type Dungeon struct {
	ID           uint                `json:"id" yaml:"id"`
	Name         string              `json:"name" yaml:"name"`
	Description  string              `json:"description" yaml:"description"`
	Difficulty   int                 `json:"difficulty" yaml:"difficulty"`
	MinPartySize int                 `json:"min_party_size" yaml:"min_party_size"`
	MaxPartySize int                 `json:"max_party_size" yaml:"max_party_size"`
	Requirements DungeonRequirements `json:"requirements" yaml:"requirements"`
	Rewards      DungeonRewards      `json:"rewards" yaml:"rewards"`
	Rooms        []DungeonRoom       `json:"rooms" yaml:"rooms"`
	TimeLimit    int                 `json:"time_limit" yaml:"time_limit"` // minutes, 0 unlimited
	NoEscape     bool                `json:"no_escape" yaml:"no_escape"`
	Permadeath   bool                `json:"permadeath" yaml:"permadeath"`
}
