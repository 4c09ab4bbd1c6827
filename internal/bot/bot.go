package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/shaken/internal/irc"
)

// Bot manages the chat connection and module coordination.
type Bot struct {
	config    *Config
	conn      irc.Conn
	users     UserDirectory
	commands  *CommandRegistry
	modules   []Module
	inspect   InspectFunc
	responder Responder
	version   string
	ids       traceIDs
}

// NewBot creates a new Bot instance with the given configuration, transport
// and user directory.
func NewBot(cfg *Config, conn irc.Conn, users UserDirectory) *Bot {
	return &Bot{
		config:    cfg,
		conn:      conn,
		users:     users,
		commands:  NewCommandRegistry(),
		modules:   make([]Module, 0),
		inspect:   func(*irc.Message, *Response) {},
		responder: NewConnResponder(conn, cfg.JoinChannels()),
		version:   "dev",
	}
}

// LoadModules appends the modules from the global registry.
func (b *Bot) LoadModules() {
	b.modules = append(b.modules, Modules()...)
}

// Add appends a module. Modules are dispatched to in the order they were added.
func (b *Bot) Add(m Module) {
	b.modules = append(b.modules, m)
}

// SetInspect sets the hook called with every response before it is sent.
// It runs on the dispatching goroutine and must not block.
func (b *Bot) SetInspect(f InspectFunc) {
	b.inspect = f
}

// SetVersion sets the build version handed to modules.
func (b *Bot) SetVersion(v string) {
	b.version = v
}

// Commands returns the bot's command registry.
func (b *Bot) Commands() *CommandRegistry {
	return b.commands
}

// Start initializes all modules. Command name collisions surface here.
func (b *Bot) Start() error {
	if err := b.initModules(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the modules.
func (b *Bot) Stop() error {
	for _, mod := range b.modules {
		s, ok := mod.(Shutdowner)
		if !ok {
			continue
		}
		if err := s.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}
	return nil
}

// initModules initializes all loaded modules.
func (b *Bot) initModules() error {
	deps := ModuleDependencies{
		Config:   b.config,
		Commands: b.commands,
		Users:    b.users,
		Version:  b.version,
		Ticks:    b.config.Dispatch != DispatchSync,
	}

	reg := NewModuleRegistry()
	for _, mod := range b.modules {
		if err := reg.Register(mod); err != nil {
			return err
		}
	}

	enabled := make([]Module, 0, len(b.modules))
	for _, mod := range reg.Modules() {
		if initializer, ok := mod.(Initializer); ok {
			err := initializer.Init(deps)
			if errors.Is(err, ErrModuleDisabled) {
				slog.Warn("skipping module", "module", mod.Name(), "reason", err)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
			}
		}
		enabled = append(enabled, mod)
		slog.Debug("initialized module", "module", mod.Name())
	}
	b.modules = enabled

	moduleNames := make([]string, len(b.modules))
	for i, mod := range b.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// Register performs the Twitch registration handshake and joins the
// configured channels. It must run before the read loop.
func (b *Bot) Register() error {
	slog.Debug("registering", "nick", b.config.Nick)

	lines := []string{
		// ircv3 stuff
		"CAP REQ :twitch.tv/tags",
		"CAP REQ :twitch.tv/membership",
		"CAP REQ :twitch.tv/commands",
		"PASS " + b.config.Password,
		"NICK " + b.config.Nick,
	}
	for _, channel := range b.config.JoinChannels() {
		lines = append(lines, "JOIN "+channel)
	}

	for _, line := range lines {
		if err := b.conn.WriteLine(line); err != nil {
			return fmt.Errorf("failed to register: %w", err)
		}
	}

	slog.Info("registered", "nick", b.config.Nick, "channels", b.config.JoinChannels())
	return nil
}

// Run calls Step until the transport closes or ctx is done.
func (b *Bot) Run(ctx context.Context) {
	slog.Debug("starting run loop")
	for ctx.Err() == nil && b.Step(ctx) {
	}
	slog.Debug("ending the run loop")
}

// Step reads one line, dispatches it to every module in order and sends the
// responses, handing each one back to the Inspect of the module that produced
// it. Step never drives Tick. It returns false once the transport is closed.
func (b *Bot) Step(ctx context.Context) bool {
	line, ok := b.conn.ReadLine()
	if !ok {
		return false
	}

	id := b.ids.next(time.Now())
	msg := b.receive(ctx, id, line)
	req := b.deriveRequest(ctx, msg)

	type produced struct {
		mod  Module
		resp *Response
	}
	var out []produced
	for _, mod := range b.modules {
		for _, resp := range dispatch(mod, msg, req) {
			if resp != nil {
				out = append(out, produced{mod: mod, resp: resp})
			}
		}
	}

	for _, p := range out {
		b.inspect(msg, p.resp)
		if err := b.responder.Respond(msg, p.resp); err != nil {
			slog.Error("failed to respond", "trace", id, "module", p.mod.Name(), "error", err)
		}
		p.mod.Inspect(msg, p.resp)
	}

	return true
}

// receive parses line and answers keepalive pings.
func (b *Bot) receive(ctx context.Context, id snowflake.ID, line string) *irc.Message {
	msg := irc.Parse(line)
	slog.DebugContext(ctx, "received message", "trace", id, "command", msg.Command)

	if msg.Command == "PING" {
		if err := b.conn.WriteLine("PONG :" + msg.Data); err != nil {
			slog.Error("failed to answer ping", "error", err)
		}
	}
	return msg
}

// deriveRequest records the sender of msg and returns its command request.
// A message whose sender cannot be identified yields no request.
func (b *Bot) deriveRequest(ctx context.Context, msg *irc.Message) *Request {
	u, err := identify(msg)
	if err != nil {
		slog.Warn("failed to identify sender", "command", msg.Command, "error", err)
		return nil
	}
	if u == nil {
		return nil
	}
	if b.users != nil {
		b.users.Create(ctx, *u)
	}

	if !msg.IsChat() || !msg.Prefix.IsUser() {
		return nil
	}
	req, ok := ParseRequest(u.ID, msg.Target(), msg.Data)
	if !ok {
		return nil
	}
	return req
}
