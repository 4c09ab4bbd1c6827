// Package timer lets chatters schedule reminders that the bot says later.
package timer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sglre6355/shaken/internal/bot"
)

func init() {
	bot.Register(&TimerModule{})
}

const (
	usage       = "usage: !timer <minutes> <text>"
	channelOnly = "timers only work in channels"
)

// TimerModule answers !timer and says expired reminders on Tick.
type TimerModule struct {
	bot.Base

	cmds     *bot.CommandMap[*TimerModule]
	schedule Schedule

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Name returns the module name.
func (m *TimerModule) Name() string {
	return "timer"
}

// Init builds the command map. Reminders are only ever said from Tick, so
// the module disables itself when the bot will not drive it.
func (m *TimerModule) Init(deps bot.ModuleDependencies) error {
	if !deps.Ticks {
		return fmt.Errorf("%w: reminders need ticks, which the sync dispatcher never sends", bot.ErrModuleDisabled)
	}

	cmds, err := bot.NewCommandMap(deps.Commands, m.Name(), []bot.CommandEntry[*TimerModule]{
		{Name: "timer", Handler: (*TimerModule).handleTimer},
	})
	if err != nil {
		return err
	}
	m.cmds = cmds
	if m.Now == nil {
		m.Now = time.Now
	}
	return nil
}

// Shutdown drops pending timers.
func (m *TimerModule) Shutdown() error {
	if n := m.schedule.Len(); n > 0 {
		slog.Warn("dropping pending timers", "count", n)
	}
	m.schedule = Schedule{}
	return nil
}

// Command dispatches !timer.
func (m *TimerModule) Command(req *bot.Request) *bot.Response {
	return m.cmds.Dispatch(m, req)
}

// Tick says the earliest expired timer. Further expired timers follow on
// later ticks.
func (m *TimerModule) Tick(now time.Time) *bot.Response {
	t, ok := m.schedule.PopDue(now)
	if !ok {
		return nil
	}
	slog.Debug("timer expired", "channel", t.Channel, "due", t.Due)
	return bot.Say(t.Text).To(t.Channel)
}

// Pending returns the number of scheduled timers.
func (m *TimerModule) Pending() int {
	return m.schedule.Len()
}

func (m *TimerModule) handleTimer(req *bot.Request) *bot.Response {
	// a whisper targets the bot's own nick, which a reminder cannot be said to
	if !strings.HasPrefix(req.Target(), "#") {
		return bot.Reply(channelOnly)
	}

	d, text, err := ParseArgs(req.Args())
	switch {
	case errors.Is(err, ErrInvalidDelay), errors.Is(err, ErrMissingText):
		return bot.Reply(usage)
	case err != nil:
		slog.Error("failed to parse timer", "args", req.Args(), "error", err)
		return nil
	}

	m.schedule.Add(Timer{
		Channel: req.Target(),
		Text:    text,
		Due:     m.Now().Add(d),
	})
	return bot.Replyf("I'll remind you in %s", d)
}
