package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/akademflow/backend/core"
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

// prepare splits args into rollbar's (msg first, then the remaining args) and the first core.Actor.
// The actor becomes the rollbar person; any other actor is dropped.
func (l RollbarLogger) prepare(msg string, args []interface{}) ([]interface{}, *core.Actor) {
	var person *core.Actor
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		actor, ok := arg.(core.Actor)
		if !ok {
			newArgs = append(newArgs, arg)
			continue
		}
		if person == nil {
			person = &actor
		}
	}
	if person != nil {
		rollbar.SetPerson(core.FirstNonEmpty(person.ID, person.Name), person.Name, "")
	} else {
		rollbar.ClearPerson()
	}
	return newArgs, person
}

func (l RollbarLogger) log(level, msg string, args []interface{}) {
	rbArgs, person := l.prepare(msg, args)
	rollbar.Log(level, rbArgs...)

	if person != nil {
		l.std.Printf("%s: %s [%s]", level, msg, core.FirstNonEmpty(person.Name, person.ID))
	} else {
		l.std.Printf("%s: %s", level, msg)
	}
	for _, arg := range rbArgs[1:] {
		l.std.Printf("  %+v", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.INFO, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.WARN, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Close()
	l.std.Fatal(msg)
}
