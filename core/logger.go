package core

// Logger reports application events.
// args may hold errors, extra data (map[string]interface{}) and the acting user.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Activity is one entry of the audit trail of applicant and admin actions.
type Activity struct {
	User    string                 `json:"user"`
	Role    string                 `json:"role"`
	Action  string                 `json:"action"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ActivityLogger records user activity as structured lines.
type ActivityLogger interface {
	Info(a Activity)
	Warn(a Activity)
	Error(a Activity)
}
