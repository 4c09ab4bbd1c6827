package irc

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
)

// Conn is a line-oriented transport.
type Conn interface {
	// ReadLine blocks until a line is available. It returns false once the
	// transport is closed; that state is terminal.
	ReadLine() (string, bool)

	// WriteLine sends a single line. The line terminator is added by the
	// transport.
	WriteLine(line string) error
}

// TCPConn implements Conn over a plain TCP connection.
type TCPConn struct {
	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex
}

// Dial connects to addr, e.g. "irc.chat.twitch.tv:6667".
func Dial(ctx context.Context, addr string) (*TCPConn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return &TCPConn{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// ReadLine reads the next line without its terminator.
func (c *TCPConn) ReadLine() (string, bool) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		slog.Debug("stopped reading from connection", "error", err)
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// WriteLine writes line followed by CRLF. Safe for concurrent use.
func (c *TCPConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.conn.Write([]byte(line + "\r\n")); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	return nil
}

// Close closes the underlying connection, which unblocks ReadLine.
func (c *TCPConn) Close() error {
	return c.conn.Close()
}

// TestConn is an in-memory Conn. Lines pushed with Push are returned by
// ReadLine in order; ReadLine reports a closed transport once the queue is
// empty. Written lines are collected for Pop.
type TestConn struct {
	mu       sync.Mutex
	incoming []string
	outgoing []string
}

// NewTestConn creates an empty TestConn.
func NewTestConn() *TestConn {
	return &TestConn{}
}

// Push queues a line to be read.
func (c *TestConn) Push(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.incoming = append(c.incoming, line)
}

// Pop returns the oldest written line.
func (c *TestConn) Pop() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.outgoing) == 0 {
		return "", false
	}
	line := c.outgoing[0]
	c.outgoing = c.outgoing[1:]
	return line, true
}

// ReadLine implements Conn.
func (c *TestConn) ReadLine() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.incoming) == 0 {
		return "", false
	}
	line := c.incoming[0]
	c.incoming = c.incoming[1:]
	return line, true
}

// WriteLine implements Conn.
func (c *TestConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outgoing = append(c.outgoing, line)
	return nil
}
