package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type (
	Logger interface {
		Log(msg string)
	}

	Clock interface {
		Now() time.Time
	}

	SystemClock struct{}

	consoleLogger struct {
		logger zerolog.Logger
	}
)

func NewConsoleLogger(logger zerolog.Logger) Logger {
	return &consoleLogger{logger: logger}
}

func (l *consoleLogger) Log(msg string) {
	l.logger.Info().Msg(msg)
}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Greeter is injected through its struct tags.
type Greeter struct {
	logger  Logger `inject:"primary"`
	clock   Clock  `inject:""`
	message string `inject:"Greeting.Message"`
	repeat  int    `inject:"Greeting.Repeat"`
	region  string `inject:"Region"`
}

func (g *Greeter) Greet(who string) string {
	greeting := strings.TrimSpace(strings.Repeat(g.message+" ", g.repeat))
	g.logger.Log(fmt.Sprintf("[%s] %s, %s (from %s)", g.clock.Now().Format(time.TimeOnly), greeting, who, g.region))
	return greeting
}

// Reporter is injected through the members annotated for the generator.
type Reporter struct {
	// @dependency named=primary
	logger  Logger
	env     string // @dependency named="AppConfig.Environment"
	greeter *Greeter
}

// SetGreeter sets the greeter used to report.
//
// @dependency
func (r *Reporter) SetGreeter(greeter *Greeter) {
	r.greeter = greeter
}

func (r *Reporter) Report(name string) {
	r.logger.Log(fmt.Sprintf("reporter %s running in %s", name, r.env))
	r.greeter.Greet(name)
}
