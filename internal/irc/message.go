// Package irc adapts the Twitch chat parser to the bot and moves lines over a
// line-oriented transport.
package irc

import (
	"log/slog"
	"strings"

	twitch "github.com/gempir/go-twitch-irc/v4"
)

// Prefix identifies the user a message came from.
type Prefix struct {
	Nick string
}

// IsUser reports whether the prefix names a user rather than a server.
func (p *Prefix) IsUser() bool {
	return p != nil && p.Nick != ""
}

func userPrefix(name string) *Prefix {
	if name == "" {
		return nil
	}
	return &Prefix{Nick: name}
}

// Message is a single parsed line.
type Message struct {
	Tags Tags
	// Prefix is nil for server messages.
	Prefix  *Prefix
	Command string
	// Args holds the middle parameters; the trailing parameter is Data.
	Args []string
	Data string

	// Twitch is the typed message the line parsed into. It is nil for lines
	// the parser rejected.
	Twitch twitch.Message
}

// Parse parses a raw line. It never fails: unrecognised input produces a
// message with whatever fields could be recovered.
func Parse(line string) *Message {
	line = strings.TrimRight(line, "\r\n")

	parsed, ok := parseTwitch(line)
	if !ok {
		return &Message{Tags: Tags{}}
	}

	msg := &Message{Tags: Tags{}, Twitch: parsed}
	switch m := parsed.(type) {
	case *twitch.PrivateMessage:
		msg.set(m.RawType, m.Tags, m.Message, channel(m.Channel))
		msg.Prefix = userPrefix(m.User.Name)
	case *twitch.WhisperMessage:
		msg.set(m.RawType, m.Tags, m.Message, m.Target)
		msg.Prefix = userPrefix(m.User.Name)
	case *twitch.GlobalUserStateMessage:
		msg.set(m.RawType, m.Tags, "")
	case *twitch.UserNoticeMessage:
		msg.set(m.RawType, m.Tags, m.Message, channel(m.Channel))
	case *twitch.UserStateMessage:
		msg.set(m.RawType, m.Tags, m.Message, channel(m.Channel))
	case *twitch.RoomStateMessage:
		msg.set(m.RawType, m.Tags, m.Message, channel(m.Channel))
	case *twitch.NoticeMessage:
		msg.set(m.RawType, m.Tags, m.Message, channel(m.Channel))
	case *twitch.ClearChatMessage:
		msg.set(m.RawType, m.Tags, m.TargetUsername, channel(m.Channel))
	case *twitch.ClearMessage:
		msg.set(m.RawType, m.Tags, m.Message, channel(m.Channel))
	case *twitch.UserJoinMessage:
		msg.set(m.RawType, nil, "", channel(m.Channel))
		msg.Prefix = userPrefix(m.User)
	case *twitch.UserPartMessage:
		msg.set(m.RawType, nil, "", channel(m.Channel))
		msg.Prefix = userPrefix(m.User)
	case *twitch.NamesMessage:
		msg.set(m.RawType, nil, strings.Join(m.Users, " "), channel(m.Channel))
	case *twitch.PingMessage:
		msg.set(m.RawType, nil, m.Message)
	case *twitch.PongMessage:
		msg.set(m.RawType, nil, m.Message)
	case *twitch.ReconnectMessage:
		msg.set(m.RawType, nil, "")
	case *twitch.RawMessage:
		msg.set(m.RawType, m.Tags, m.Message)
	}
	return msg
}

// parseTwitch guards against the typed parsers indexing parameters a
// truncated line does not have.
func parseTwitch(line string) (parsed twitch.Message, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("failed to parse line", "line", line, "error", r)
			parsed, ok = nil, false
		}
	}()
	return twitch.ParseMessage(line), true
}

func (m *Message) set(command string, tags map[string]string, data string, args ...string) {
	m.Command = command
	if tags != nil {
		m.Tags = Tags(tags)
	}
	m.Data = data
	for _, arg := range args {
		if arg != "" {
			m.Args = append(m.Args, arg)
		}
	}
}

func channel(name string) string {
	if name == "" {
		return ""
	}
	return "#" + name
}

// Target returns the first middle parameter, usually the channel.
func (m *Message) Target() string {
	if len(m.Args) == 0 {
		return ""
	}
	return m.Args[0]
}

// IsChat reports whether the message is a command-class message, i.e. one
// that is routed to command and passive handlers.
func (m *Message) IsChat() bool {
	return m.Command == "PRIVMSG" || m.Command == "WHISPER"
}

// Sender returns the chatter a PRIVMSG, WHISPER or GLOBALUSERSTATE speaks
// for, as the parser read it from the tags.
func (m *Message) Sender() (twitch.User, bool) {
	switch t := m.Twitch.(type) {
	case *twitch.PrivateMessage:
		return t.User, true
	case *twitch.WhisperMessage:
		return t.User, true
	case *twitch.GlobalUserStateMessage:
		return t.User, true
	default:
		return twitch.User{}, false
	}
}

// Clone returns a copy of the message. The typed Twitch view is shared.
func (m *Message) Clone() *Message {
	c := &Message{
		Tags:    make(Tags, len(m.Tags)),
		Command: m.Command,
		Args:    append([]string(nil), m.Args...),
		Data:    m.Data,
		Twitch:  m.Twitch,
	}
	for k, v := range m.Tags {
		c.Tags[k] = v
	}
	if m.Prefix != nil {
		p := *m.Prefix
		c.Prefix = &p
	}
	return c
}
