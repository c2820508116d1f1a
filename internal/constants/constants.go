package constants

// Session / context keys
const (
	SessionCookieName = "planner_session"
	ContextKeyUserID  = "user_id"
	ContextKeyTask    = "task"
)

// Authentication
const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Task rules
const (
	MinPenalty = 1
	MaxPenalty = 10

	// TaskStatusOn is the lifecycle state a task starts in.
	TaskStatusOn = "On"
)

// Arrangement strategies. The numbering is part of the API contract.
const (
	StrategyTardiness      = 1 // genetic search over total weighted tardiness
	StrategyWeightedRandom = 2 // random draw biased toward the tardiness order
	StrategyDeadline       = 3 // earliest deadline first
	StrategyPenalty        = 4 // highest penalty first
	StrategyShortest       = 5 // shortest expected time first

	DefaultStrategy = StrategyTardiness
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// MemberBackfillRetries bounds the retry loop when adding extra members
// after task creation. Each attempt is idempotent.
const MemberBackfillRetries = 3
