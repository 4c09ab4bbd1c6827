package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sglre6355/shaken/internal/irc"
)

func popAll(conn *irc.TestConn) []string {
	var lines []string
	for {
		line, ok := conn.Pop()
		if !ok {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestRunWorkers_DeliversResponses(t *testing.T) {
	defer goleak.VerifyNone(t)

	conn := irc.NewTestConn()
	b := newTestBot(conn)
	b.Add(&echoModule{})

	for _, text := range []string{"A", "B", "C"} {
		conn.Push(testPrivmsg + text)
	}

	require.NoError(t, b.RunWorkers(context.Background()))

	assert.Equal(t, []string{
		"PRIVMSG #test :A",
		"PRIVMSG #test :B",
		"PRIVMSG #test :C",
	}, popAll(conn))
}

func TestRunWorkers_InspectsResponses(t *testing.T) {
	defer goleak.VerifyNone(t)

	conn := irc.NewTestConn()
	b := newTestBot(conn)
	mod := &stubModule{name: "stub", passive: Say("seen")}
	b.Add(mod)

	var (
		mu        sync.Mutex
		inspected []string
	)
	b.SetInspect(func(msg *irc.Message, resp *Response) {
		mu.Lock()
		defer mu.Unlock()
		inspected = append(inspected, msg.Data)
	})

	conn.Push(testPrivmsg + "one")
	conn.Push(testPrivmsg + "two")

	require.NoError(t, b.RunWorkers(context.Background()))

	assert.Equal(t, []string{"one", "two"}, inspected)
	// Inspect events race with queue closure and may be dropped, but never
	// produce output and never exceed the number of responses.
	assert.LessOrEqual(t, len(mod.Inspected()), 2)
	assert.Len(t, popAll(conn), 2)
}

func TestRunWorkers_EveryModuleSeesEveryMessage(t *testing.T) {
	defer goleak.VerifyNone(t)

	conn := irc.NewTestConn()
	b := newTestBot(conn)
	first := &stubModule{name: "first"}
	second := &stubModule{name: "second", event: Say("event")}
	b.Add(first)
	b.Add(second)

	conn.Push(testPrivmsg + "!cmd")
	conn.Push(":a!a@a JOIN #test")

	require.NoError(t, b.RunWorkers(context.Background()))

	assert.Equal(t, []string{"first.command", "first.passive", "first.event"}, first.Calls())
	assert.Equal(t, []string{"second.command", "second.passive", "second.event"}, second.Calls())
	assert.Equal(t, []string{"PRIVMSG #test :event"}, popAll(conn))
}

func TestRunWorkers_TicksReachModules(t *testing.T) {
	defer goleak.VerifyNone(t)

	conn := &slowConn{TestConn: irc.NewTestConn(), delay: 50 * time.Millisecond}
	b := newTestBot(conn)
	b.config.TickInterval = 5 * time.Millisecond
	mod := &stubModule{name: "ticker", tick: Say("tock").To("#test")}
	b.Add(mod)

	conn.Push("PING :tmi.twitch.tv")

	require.NoError(t, b.RunWorkers(context.Background()))

	assert.Contains(t, mod.Calls(), "ticker.tick")
	lines := popAll(conn.TestConn)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines, "PRIVMSG #test :tock")
	assert.Contains(t, lines, "PONG :tmi.twitch.tv")
}

func TestRunWorkers_NoModules(t *testing.T) {
	defer goleak.VerifyNone(t)

	conn := irc.NewTestConn()
	b := newTestBot(conn)
	conn.Push(testPrivmsg + "hello")

	assert.NoError(t, b.RunWorkers(context.Background()))
}

func TestInbox_PublishAfterClose(t *testing.T) {
	q := newInbox("test", 1)
	q.close()
	q.close()

	assert.NotPanics(t, func() {
		q.push(TickEvent(1, time.Now()))
		q.offer(TickEvent(1, time.Now()))
	})
}

func TestInbox_OfferDropsWhenFull(t *testing.T) {
	q := newInbox("test", 1)

	q.offer(TickEvent(1, time.Now()))
	q.offer(TickEvent(1, time.Now()))

	assert.Len(t, q.ch, 1)
}

// slowConn delays the closed signal so that ticks get a chance to fire.
type slowConn struct {
	*irc.TestConn
	delay time.Duration
}

func (c *slowConn) ReadLine() (string, bool) {
	line, ok := c.TestConn.ReadLine()
	if !ok {
		time.Sleep(c.delay)
	}
	return line, ok
}
