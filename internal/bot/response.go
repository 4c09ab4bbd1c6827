package bot

import (
	"fmt"
	"strings"

	"github.com/sglre6355/shaken/internal/irc"
)

// ResponseKind selects how a response is delivered.
type ResponseKind int

const (
	// KindSay posts to the reply target.
	KindSay ResponseKind = iota
	// KindReply posts to the reply target, addressed to the sender.
	KindReply
	// KindAction posts a /me line.
	KindAction
	// KindWhisper whispers the sender.
	KindWhisper
)

// whisperChannel is the pseudo channel Twitch accepts /w commands on.
const whisperChannel = "#jtv"

// Response is the output of a module capability. A nil *Response means no
// reply.
type Response struct {
	kind    ResponseKind
	lines   []string
	channel string
}

// Say creates a response posted to the reply target.
func Say(lines ...string) *Response {
	return &Response{kind: KindSay, lines: lines}
}

// Sayf is Say with formatting.
func Sayf(format string, args ...any) *Response {
	return Say(fmt.Sprintf(format, args...))
}

// Reply creates a response addressed to the sender.
func Reply(lines ...string) *Response {
	return &Response{kind: KindReply, lines: lines}
}

// Replyf is Reply with formatting.
func Replyf(format string, args ...any) *Response {
	return Reply(fmt.Sprintf(format, args...))
}

// Action creates a /me response.
func Action(lines ...string) *Response {
	return &Response{kind: KindAction, lines: lines}
}

// Whisper creates a response whispered to the sender.
func Whisper(lines ...string) *Response {
	return &Response{kind: KindWhisper, lines: lines}
}

// To returns a copy of r bound to channel instead of the message's target.
// Responses without an originating message need it to be routed anywhere
// but every joined channel.
func (r *Response) To(channel string) *Response {
	c := *r
	c.channel = normalizeChannel(channel)
	return &c
}

// Kind returns the delivery kind.
func (r *Response) Kind() ResponseKind { return r.kind }

// Lines returns the text lines.
func (r *Response) Lines() []string { return r.lines }

// Channel returns the explicit channel set with To.
func (r *Response) Channel() string { return r.channel }

// Build renders r into transport lines answering msg.
// Responses to whispers are always whispered back.
func (r *Response) Build(msg *irc.Message) []string {
	if msg == nil {
		return r.BuildChannel(r.channel)
	}

	login := ""
	if msg.Prefix.IsUser() {
		login = msg.Prefix.Nick
	}
	display, ok := msg.Tags.Display()
	if !ok {
		display = login
	}

	if r.kind == KindWhisper || msg.Command == "WHISPER" {
		if login == "" {
			return nil
		}
		return r.render(whisperChannel, "/w "+login+" ")
	}

	channel := r.channel
	if channel == "" {
		channel = msg.Target()
	}
	if channel == "" {
		return nil
	}

	switch r.kind {
	case KindReply:
		if display == "" {
			return r.render(channel, "")
		}
		return r.render(channel, "@"+display+": ")
	case KindAction:
		return r.render(channel, "/me ")
	default:
		return r.render(channel, "")
	}
}

// BuildChannel renders r for channel without an originating message.
// Replies and whispers have nobody to address and degrade to plain lines.
func (r *Response) BuildChannel(channel string) []string {
	channel = normalizeChannel(channel)
	if channel == "" {
		return nil
	}
	if r.kind == KindAction {
		return r.render(channel, "/me ")
	}
	return r.render(channel, "")
}

func (r *Response) render(channel, prefix string) []string {
	out := make([]string, 0, len(r.lines))
	for _, line := range r.lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, "PRIVMSG "+channel+" :"+prefix+line)
	}
	return out
}

func normalizeChannel(channel string) string {
	channel = strings.TrimSpace(channel)
	if channel == "" || strings.HasPrefix(channel, "#") {
		return strings.ToLower(channel)
	}
	return "#" + strings.ToLower(channel)
}
