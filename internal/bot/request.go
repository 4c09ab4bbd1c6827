package bot

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CommandPrefix marks chat text as a command invocation.
const CommandPrefix = "!"

// Request is a command invocation derived from a chat message.
type Request struct {
	sender int64
	target string
	text   string
	name   string
	args   string
}

// ParseRequest derives a request from chat text sent by sender to target.
// It reports false when the text is not a command invocation.
func ParseRequest(sender int64, target, text string) (*Request, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(text), CommandPrefix)
	if !ok || rest == "" || isSpaceAt(rest, 0) {
		return nil, false
	}
	return &Request{
		sender: sender,
		target: target,
		text:   rest,
	}, true
}

// Search reports whether the request text starts with name as a whole
// whitespace-delimited token. The returned request carries name and the
// remaining text as its arguments.
func (r *Request) Search(name string) (*Request, bool) {
	if name == "" {
		return nil, false
	}
	rest, ok := strings.CutPrefix(r.text, name)
	if !ok {
		return nil, false
	}
	if rest != "" && !isSpaceAt(rest, 0) {
		return nil, false
	}

	matched := *r
	matched.name = name
	matched.args = strings.TrimSpace(rest)
	return &matched, true
}

// Sender returns the user id of the invoking chatter.
func (r *Request) Sender() int64 { return r.sender }

// Target returns the channel (or whisper target) the request was sent to.
func (r *Request) Target() string { return r.target }

// Text returns the request text without the command prefix.
func (r *Request) Text() string { return r.text }

// Name returns the matched command name, empty before Search.
func (r *Request) Name() string { return r.name }

// Args returns the text following the matched command name.
func (r *Request) Args() string { return r.args }

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

func isSpaceAt(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isSpace(r)
}
