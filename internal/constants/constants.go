package constants

// Centralized constants for env keys, routes and shared field names.
const (
	// Environment variable keys
	EnvConfigPath = "GLOOMDELVE_CONFIG"
	EnvDBPath     = "GLOOMDELVE_DB"

	// Defaults used when the env vars are unset
	DefaultConfigPath = "./gloomdelve_config.json"
	DefaultDBPath     = "./data/gloomdelve.db"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api"

	RouteBattles       = "/battles"
	RouteBattleByID    = "/battles/:battleId"
	RouteBattleActions = "/battles/:battleId/actions"

	RouteRuns        = "/runs"
	RouteRunByID     = "/runs/:runId"
	RouteRunAdvance  = "/runs/:runId/advance"
	RouteRunAbandon  = "/runs/:runId/abandon"
	RouteDungeons    = "/dungeons"
	RouteSkills      = "/skills"
	RouteItems       = "/items"
	RouteHealthCheck = "/healthz"
	RouteVersion     = "/version"
)

// JSON keys shared between handlers
const (
	JSONKeyError = "error"
)

// Error strings returned by the API layer
const (
	ErrInvalidRequest     = "invalid request"
	ErrInvalidBattleID    = "invalid battle id"
	ErrBattleNotFound     = "battle not found"
	ErrRunNotFound        = "dungeon run not found"
	ErrFailedStoreBattle  = "failed to store battle"
	ErrFailedStoreRun     = "failed to store dungeon run"
	ErrFailedLoadCatalog  = "failed to load catalog data"
	ErrFailedReadState    = "failed to read state"
)

// Structured log field names
const (
	LogFieldBattleID  = "battle_id"
	LogFieldRunID     = "run_id"
	LogFieldDungeonID = "dungeon_id"
	LogFieldRoom      = "room"
	LogFieldTurn      = "turn"
	LogFieldStatus    = "status"
	LogFieldAddr      = "addr"
	LogFieldPath      = "path"
)
