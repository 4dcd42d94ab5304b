package logsvc

import (
	"io"

	"github.com/labstack/gommon/log"

	"github.com/unimatric/admissions/core"
)

// ActivityLogger writes one JSON line per applicant or admin action:
// {"time":…,"level":…,"user":…,"role":…,"action":…,"details":{…}}
type ActivityLogger struct {
	log *log.Logger
}

var _ core.ActivityLogger = (*ActivityLogger)(nil)

func NewActivityLogger(w io.Writer) *ActivityLogger {
	l := log.New("activity")
	l.SetOutput(w)
	l.DisableColor()
	l.SetHeader(`{"time":"${time_rfc3339}","level":"${level}"}`)
	l.SetLevel(log.INFO)
	return &ActivityLogger{log: l}
}

func entry(a core.Activity) log.JSON {
	j := log.JSON{
		"user":   a.User,
		"role":   a.Role,
		"action": a.Action,
	}
	if len(a.Details) > 0 {
		j["details"] = a.Details
	}
	return j
}

func (l *ActivityLogger) Info(a core.Activity)  { l.log.Infoj(entry(a)) }
func (l *ActivityLogger) Warn(a core.Activity)  { l.log.Warnj(entry(a)) }
func (l *ActivityLogger) Error(a core.Activity) { l.log.Errorj(entry(a)) }
