package constants

const (
	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyActor     = "actor"
	ContextKeyRequestID = "request_id"
	ContextKeyTaskID    = "task_id"

	// Session
	SessionCookieName = "task_session"

	// Task validation
	MinTitleLength = 3
	MaxTitleLength = 200

	// Auth
	MinPasswordLength = 6

	// DisplayTimeFormat is used for human-readable timestamps in API responses,
	// notification mails and reports.
	DisplayTimeFormat = "02/01/2006 15:04"
	DisplayDateFormat = "02/01/2006"

	// ExportFileTimeFormat stamps export filenames.
	ExportFileTimeFormat = "20060102_150405"

	HeaderRequestID = "X-Request-ID"
)
