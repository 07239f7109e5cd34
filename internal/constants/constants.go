package constants

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"
	ContextKeyEvent   = "event"
	SessionCookieName = "gantt_session"
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 3000
)

// Auth
const (
	MinPasswordLength = 8
)

// Percentage completion bounds
const (
	MinPercentageCompletion = 0
	MaxPercentageCompletion = 100
)
