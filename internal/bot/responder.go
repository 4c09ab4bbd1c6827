package bot

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/sglre6355/shaken/internal/irc"
)

// Responder delivers module responses.
// This interface enables testing the dispatch path without a live connection.
type Responder interface {
	// Respond sends resp as an answer to origin. origin is nil for responses
	// that were not caused by a message.
	Respond(origin *irc.Message, resp *Response) error
}

// ConnResponder implements Responder by rendering responses onto a Conn.
type ConnResponder struct {
	conn     irc.Conn
	channels []string
}

// NewConnResponder creates a new ConnResponder. Responses without an origin
// or explicit channel are broadcast to channels.
func NewConnResponder(conn irc.Conn, channels []string) *ConnResponder {
	return &ConnResponder{
		conn:     conn,
		channels: channels,
	}
}

// Respond renders resp and writes each line in order.
func (r *ConnResponder) Respond(origin *irc.Message, resp *Response) error {
	var lines []string
	switch {
	case origin != nil:
		lines = resp.Build(origin)
	case resp.Channel() != "":
		lines = resp.BuildChannel(resp.Channel())
	default:
		for _, channel := range r.channels {
			lines = append(lines, resp.BuildChannel(channel)...)
		}
	}

	for _, line := range lines {
		slog.Debug("writing response", "line", line)
		if err := r.conn.WriteLine(line); err != nil {
			return fmt.Errorf("failed to send response: %w", err)
		}
	}
	return nil
}

// MockResponder is a test double for Responder.
type MockResponder struct {
	mu        sync.Mutex
	Origins   []*irc.Message
	Responses []*Response
	Err       error
}

// Respond records the response for testing.
func (m *MockResponder) Respond(origin *irc.Message, resp *Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Origins = append(m.Origins, origin)
	m.Responses = append(m.Responses, resp)
	return m.Err
}
