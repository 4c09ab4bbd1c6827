// Package builtin provides the commands every bot instance answers.
package builtin

import (
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sglre6355/shaken/internal/bot"
	"github.com/sglre6355/shaken/internal/irc"
	"github.com/sglre6355/shaken/internal/modules/builtin/application"
	"github.com/sglre6355/shaken/internal/modules/builtin/domain"
)

func init() {
	bot.Register(&BuiltinModule{})
}

// BuiltinModule provides !ping, !version, !commands and !whois, answers the
// 🏓 trigger and greets raids.
type BuiltinModule struct {
	bot.Base

	cmds     *bot.CommandMap[*BuiltinModule]
	registry *bot.CommandRegistry
	version  string

	ping  *application.PingInteractor
	whois *application.WhoisInteractor

	replies atomic.Int64
}

// Name returns the module name.
func (m *BuiltinModule) Name() string {
	return "builtin"
}

// Init builds the command map and the interactors.
func (m *BuiltinModule) Init(deps bot.ModuleDependencies) error {
	cmds, err := bot.NewCommandMap(deps.Commands, m.Name(), []bot.CommandEntry[*BuiltinModule]{
		{Name: "ping", Handler: (*BuiltinModule).handlePing},
		{Name: "version", Handler: (*BuiltinModule).handleVersion},
		{Name: "commands", Handler: (*BuiltinModule).handleCommands},
		{Name: "whois", Handler: (*BuiltinModule).handleWhois},
	})
	if err != nil {
		return err
	}

	m.cmds = cmds
	m.registry = deps.Commands
	m.version = deps.Version
	m.ping = application.NewPingInteractor(time.Now())
	m.whois = application.NewWhoisInteractor(deps.Users)
	return nil
}

// Command dispatches to the builtin commands.
func (m *BuiltinModule) Command(req *bot.Request) *bot.Response {
	return m.cmds.Dispatch(m, req)
}

// Passive answers messages containing the 🏓 emoji.
func (m *BuiltinModule) Passive(msg *irc.Message) *bot.Response {
	result := domain.NewPongResult(msg.Data)
	if !result.ShouldRespond {
		return nil
	}
	return bot.Say(result.Response)
}

// Event greets incoming raids.
func (m *BuiltinModule) Event(msg *irc.Message) *bot.Response {
	if msg.Command != "USERNOTICE" {
		return nil
	}
	raid, ok := domain.ParseRaid(msg.Tags.Get)
	if !ok {
		return nil
	}
	slog.Info("raid", "channel", msg.Target(), "raider", raid.Raider, "viewers", raid.Viewers)
	return bot.Say(raid.Greeting())
}

// Inspect counts the replies this module sent.
func (m *BuiltinModule) Inspect(msg *irc.Message, resp *bot.Response) {
	n := m.replies.Add(1)
	slog.Debug("builtin replied", "replies", n, "lines", len(resp.Lines()))
}

// Replies returns the number of responses observed through Inspect.
func (m *BuiltinModule) Replies() int64 {
	return m.replies.Load()
}

func (m *BuiltinModule) handlePing(req *bot.Request) *bot.Response {
	return bot.Reply(m.ping.Execute().Message)
}

func (m *BuiltinModule) handleVersion(req *bot.Request) *bot.Response {
	return bot.Replyf("shaken %s", m.version)
}

func (m *BuiltinModule) handleCommands(req *bot.Request) *bot.Response {
	cmds := m.registry.Commands()
	names := make([]string, len(cmds))
	for i, cmd := range cmds {
		names[i] = bot.CommandPrefix + cmd.Name()
	}
	return bot.Reply(strings.Join(names, " "))
}

func (m *BuiltinModule) handleWhois(req *bot.Request) *bot.Response {
	return bot.Reply(m.whois.Execute(req.Args()))
}
