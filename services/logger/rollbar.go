package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/user"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// reportArgs splits args (msg | error, map[string]interface{}, core.Activity, user.User)
// into the acting user and the rollbar arguments. Activities and maps are merged into a single
// extras map since rollbar keeps only one.
func reportArgs(args []interface{}) (*user.User, []interface{}) {
	var usr *user.User
	var extras map[string]interface{}
	addExtra := func(k string, v interface{}) {
		if extras == nil {
			extras = make(map[string]interface{})
		}
		extras[k] = v
	}

	rest := make([]interface{}, 0, len(args)+1)
	for _, arg := range args {
		switch a := arg.(type) {
		case user.User:
			if usr == nil && a.ID != "" { // only set one User
				u := a
				usr = &u
			}
		case core.Activity:
			addExtra("action", a.Action)
			for k, v := range a.Details {
				addExtra(k, v)
			}
			if usr == nil && a.User != "" {
				usr = &user.User{ID: a.User, Role: a.Role}
			}
		case map[string]interface{}:
			for k, v := range a {
				addExtra(k, v)
			}
		default:
			rest = append(rest, arg)
		}
	}
	if extras != nil {
		rest = append(rest, extras)
	}
	return usr, rest
}

func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	usr, rest := reportArgs(args)
	if usr != nil {
		rollbar.SetPerson(usr.ID, usr.FullName, usr.Email)
	} else {
		rollbar.ClearPerson()
	}
	return append([]interface{}{msg}, rest...)
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		switch a := arg.(type) {
		case user.User:
			l.std.Printf("user: %s (%s)\n", a.ID, a.Role)
		case core.Activity:
			l.std.Printf("activity: %s by %s (%s) %v\n", a.Action, a.User, a.Role, a.Details)
		default:
			l.std.Printf("%+v\n", arg)
		}
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	rollbar.Wait()
	l.print(msg, args)
	l.std.Fatal(msg)
}
