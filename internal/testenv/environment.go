// Package testenv provides an in-memory bot for module tests.
package testenv

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sglre6355/shaken/internal/bot"
	"github.com/sglre6355/shaken/internal/color"
	"github.com/sglre6355/shaken/internal/irc"
	"github.com/sglre6355/shaken/internal/user"
)

// Default users seeded into every Environment.
var (
	DefaultUser = user.User{ID: 1000, Display: "test", Color: color.White}
	BotUser     = user.User{ID: 42, Display: "shaken_bot", Color: bot.BotColor}
)

// Channel is the channel templated messages are sent to.
const Channel = "#test"

// Environment wires a Bot to a TestConn and a throwaway user store.
type Environment struct {
	t     testing.TB
	conn  *irc.TestConn
	bot   *bot.Bot
	users *user.Store
}

// New creates an Environment. The store lives in t.TempDir and is closed on
// cleanup.
func New(t testing.TB) *Environment {
	t.Helper()

	users, err := user.Open(context.Background(), filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("failed to open user store: %v", err)
	}
	t.Cleanup(func() { _ = users.Close() })

	for _, u := range []user.User{DefaultUser, BotUser} {
		users.Create(context.Background(), u)
	}

	cfg := &bot.Config{
		Password:     "oauth:test",
		Nick:         BotUser.Display,
		Channels:     []string{Channel},
		Dispatch:     bot.DispatchSync,
		TickInterval: time.Second,
		QueueSize:    8,
	}
	conn := irc.NewTestConn()

	return &Environment{
		t:     t,
		conn:  conn,
		bot:   bot.NewBot(cfg, conn, users),
		users: users,
	}
}

// Add adds a module to the bot.
func (e *Environment) Add(m bot.Module) {
	e.bot.Add(m)
}

// Start initializes the added modules and fails the test on error.
func (e *Environment) Start() {
	e.t.Helper()
	if err := e.bot.Start(); err != nil {
		e.t.Fatalf("failed to start bot: %v", err)
	}
}

// Step dispatches the next pushed line.
func (e *Environment) Step() {
	e.t.Helper()
	if !e.bot.Step(context.Background()) {
		e.t.Fatal("expected a pushed line, transport is empty")
	}
}

// Push queues a PRIVMSG from DefaultUser to Channel.
func (e *Environment) Push(data string) {
	e.PushRaw("@display-name=" + DefaultUser.Display + ";color=;user-id=1000 " +
		":test!test@test.tmi.twitch.tv PRIVMSG " + Channel + " :" + data)
}

// PushRaw queues a raw protocol line.
func (e *Environment) PushRaw(line string) {
	e.conn.Push(line)
}

// Pop returns the text of the oldest line the bot wrote.
func (e *Environment) Pop() (string, bool) {
	line, ok := e.PopRaw()
	if !ok {
		return "", false
	}
	return irc.Parse(":test!user@irc.test " + line).Data, true
}

// PopRaw returns the oldest line the bot wrote, unparsed.
func (e *Environment) PopRaw() (string, bool) {
	return e.conn.Pop()
}

// Drain discards everything the bot wrote so far.
func (e *Environment) Drain() {
	for {
		if _, ok := e.conn.Pop(); !ok {
			return
		}
	}
}

// UserID returns DefaultUser's id.
func (e *Environment) UserID() int64 { return DefaultUser.ID }

// UserName returns DefaultUser's display name.
func (e *Environment) UserName() string { return DefaultUser.Display }

// Users returns the backing store.
func (e *Environment) Users() *user.Store { return e.users }

// Bot returns the bot under test.
func (e *Environment) Bot() *bot.Bot { return e.bot }
