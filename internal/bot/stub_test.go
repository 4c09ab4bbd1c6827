package bot

import (
	"context"
	"sync"
	"time"

	"github.com/sglre6355/shaken/internal/irc"
	"github.com/sglre6355/shaken/internal/user"
)

// stubModule is a test double for Module that records every call.
type stubModule struct {
	Base
	name    string
	initErr error
	shutErr error
	deps    ModuleDependencies

	mu      sync.Mutex
	calls   []string
	command *Response
	passive *Response
	event   *Response
	tick    *Response

	inspected []*Response
}

func (m *stubModule) Name() string                       { return m.name }
func (m *stubModule) Shutdown() error { return m.shutErr }

func (m *stubModule) Init(deps ModuleDependencies) error {
	m.deps = deps
	return m.initErr
}

func (m *stubModule) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, m.name+"."+call)
}

func (m *stubModule) Command(req *Request) *Response {
	m.record("command")
	return m.command
}

func (m *stubModule) Passive(msg *irc.Message) *Response {
	m.record("passive")
	return m.passive
}

func (m *stubModule) Event(msg *irc.Message) *Response {
	m.record("event")
	return m.event
}

func (m *stubModule) Tick(now time.Time) *Response {
	m.record("tick")
	return m.tick
}

func (m *stubModule) Inspect(msg *irc.Message, resp *Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inspected = append(m.inspected, resp)
}

func (m *stubModule) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *stubModule) Inspected() []*Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Response(nil), m.inspected...)
}

// fakeUsers is an in-memory UserDirectory.
type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]user.User)}
}

func (f *fakeUsers) Create(_ context.Context, u user.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		f.users[u.ID] = u
	}
}

func (f *fakeUsers) ByID(_ context.Context, id int64) (user.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	return u, ok
}

func (f *fakeUsers) ByName(_ context.Context, name string) (user.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Display == name {
			return u, true
		}
	}
	return user.User{}, false
}

const testPrivmsg = "@display-name=Test;color=#FFFFFF;user-id=1000 " +
	":test!test@test.tmi.twitch.tv PRIVMSG #test :"

func newTestBot(conn irc.Conn) *Bot {
	cfg := &Config{
		Password:     "oauth:secret",
		Nick:         "shaken_bot",
		Channels:     []string{"test"},
		Dispatch:     DispatchSync,
		TickInterval: time.Hour,
		QueueSize:    8,
	}
	return NewBot(cfg, conn, newFakeUsers())
}
