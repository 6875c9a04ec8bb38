package game

// BattleStatus tracks the lifecycle of a single encounter. Victory, defeat
// and fled are terminal: no further turns are accepted once reached.
type BattleStatus string

const (
	BattlePending BattleStatus = "pending"
	BattleActive  BattleStatus = "active"
	BattleVictory BattleStatus = "victory"
	BattleDefeat  BattleStatus = "defeat"
	BattleFled    BattleStatus = "fled"
)

// BattleType tags where an encounter came from. PVP is a tag only; there is
// no live-opponent protocol behind it.
type BattleType string

const (
	BattleTypeDungeon BattleType = "dungeon"
	BattleTypePVP     BattleType = "pvp"
	BattleTypeBoss    BattleType = "boss"
	BattleTypeRandom  BattleType = "random"
)

type ParticipantType string

const (
	ParticipantCharacter ParticipantType = "character"
	ParticipantEnemy     ParticipantType = "enemy"
)

type ParticipantStatus string

const (
	StatusActive   ParticipantStatus = "active"
	StatusDead     ParticipantStatus = "dead"
	StatusStunned  ParticipantStatus = "stunned"
	StatusPoisoned ParticipantStatus = "poisoned"
	StatusSleeping ParticipantStatus = "sleeping"
	StatusConfused ParticipantStatus = "confused"
)

type ActionType string

const (
	ActionAttack ActionType = "attack"
	ActionSkill  ActionType = "skill"
	ActionItem   ActionType = "item"
	ActionDefend ActionType = "defend"
	ActionFlee   ActionType = "flee"
	ActionPass   ActionType = "pass"
)

type ActionTarget string

const (
	TargetSingleEnemy ActionTarget = "single_enemy"
	TargetAllEnemies  ActionTarget = "all_enemies"
	TargetSingleAlly  ActionTarget = "single_ally"
	TargetAllAllies   ActionTarget = "all_allies"
	TargetSelf        ActionTarget = "self"
)

// Effectiveness is the categorical damage outcome of the resistance and
// weakness interaction for one resolved hit.
type Effectiveness string

const (
	EffectivenessNormal  Effectiveness = "normal"
	EffectivenessSuper   Effectiveness = "super_effective"
	EffectivenessNotVery Effectiveness = "not_very_effective"
	EffectivenessImmune  Effectiveness = "immune"
)

type TurnStatus string

const (
	TurnPending   TurnStatus = "pending"
	TurnActive    TurnStatus = "active"
	TurnCompleted TurnStatus = "completed"
)

type RunStatus string

const (
	RunPreparing  RunStatus = "preparing"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
	RunAbandoned  RunStatus = "abandoned"
)

type RoomType string

const (
	RoomNormal   RoomType = "normal"
	RoomMiniboss RoomType = "miniboss"
	RoomBoss     RoomType = "boss"
	RoomTreasure RoomType = "treasure"
	RoomTrap     RoomType = "trap"
	RoomShop     RoomType = "shop"
	RoomRest     RoomType = "rest"
)

type EncounterType string

const (
	EncounterCombat   EncounterType = "combat"
	EncounterTreasure EncounterType = "treasure"
	EncounterTrap     EncounterType = "trap"
)

type SkillType string

const (
	SkillActive  SkillType = "active"
	SkillPassive SkillType = "passive"
)

type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagical  DamageType = "magical"
	DamageHealing  DamageType = "healing"
	DamageStatus   DamageType = "status"
)

// Element keys the resistance and weakness tables on enemy templates.
type Element string

const (
	ElementPhysical  Element = "physical"
	ElementMagical   Element = "magical"
	ElementFire      Element = "fire"
	ElementIce       Element = "ice"
	ElementLightning Element = "lightning"
	ElementPoison    Element = "poison"
	ElementHoly      Element = "holy"
)

type StatusEffectType string

const (
	EffectPoison        StatusEffectType = "poison"
	EffectRegeneration  StatusEffectType = "regeneration"
	EffectAttackBoost   StatusEffectType = "attack_boost"
	EffectAttackDebuff  StatusEffectType = "attack_debuff"
	EffectDefenseBoost  StatusEffectType = "defense_boost"
	EffectDefenseDebuff StatusEffectType = "defense_debuff"
	EffectSpeedBoost    StatusEffectType = "speed_boost"
	EffectSpeedDebuff   StatusEffectType = "speed_debuff"
	EffectEvasionBoost  StatusEffectType = "evasion_boost"
	EffectCritBoost     StatusEffectType = "critical_boost"
	EffectMagicResist   StatusEffectType = "magic_resistance_boost"
	EffectStun          StatusEffectType = "stun"
	EffectSleep         StatusEffectType = "sleep"
	EffectConfuse       StatusEffectType = "confuse"
	EffectDefendStance  StatusEffectType = "defend_stance"
)

// ItemType distinguishes equippable gear from consumables carried into battle.
type ItemType string

const (
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemAccessory  ItemType = "accessory"
	ItemConsumable ItemType = "consumable"
	ItemMaterial   ItemType = "material"
)

// AIPriority selects how a non-player participant picks its target.
// lowest_hp duplicates weakest; the source data keeps them distinct.
type AIPriority string

const (
	PriorityWeakest       AIPriority = "weakest"
	PriorityStrongest     AIPriority = "strongest"
	PriorityLowestHP      AIPriority = "lowest_hp"
	PriorityRandom        AIPriority = "random"
	PriorityHighestDamage AIPriority = "highest_damage"
)

type SkillUsagePolicy string

const (
	UsageConservative SkillUsagePolicy = "conservative"
	UsageBalanced     SkillUsagePolicy = "balanced"
	UsageAggressive   SkillUsagePolicy = "aggressive"
)
