package bot

import (
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/shaken/internal/irc"
)

// EventKind tags the variants of Event.
type EventKind int

const (
	// EventMessage carries an inbound message and, for commands, its request.
	EventMessage EventKind = iota + 1
	// EventTick carries the tick time.
	EventTick
	// EventInspect carries a response the module produced earlier.
	EventInspect
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventTick:
		return "tick"
	case EventInspect:
		return "inspect"
	default:
		return "unknown"
	}
}

// Event is the unit of work consumed by a module worker.
type Event struct {
	Kind EventKind

	// ID correlates an inbound line with everything produced from it.
	ID snowflake.ID

	Message  *irc.Message
	Request  *Request
	Time     time.Time
	Response *Response
}

// MessageEvent creates an EventMessage. req may be nil.
func MessageEvent(id snowflake.ID, msg *irc.Message, req *Request) Event {
	return Event{Kind: EventMessage, ID: id, Message: msg, Request: req}
}

// TickEvent creates an EventTick.
func TickEvent(id snowflake.ID, now time.Time) Event {
	return Event{Kind: EventTick, ID: id, Time: now}
}

// InspectEvent creates an EventInspect.
func InspectEvent(id snowflake.ID, msg *irc.Message, resp *Response) Event {
	return Event{Kind: EventInspect, ID: id, Message: msg, Response: resp}
}

// Output is a response produced by a module worker. Origin is nil for
// responses emitted by Tick.
type Output struct {
	ID       snowflake.ID
	Module   string
	Origin   *irc.Message
	Response *Response
}

// inspectWindow is how long a worker waits for the Inspect event of a
// response it emitted before forgetting it.
const inspectWindow = time.Minute

// Handle runs m as a worker: it consumes events from in, in order, until in
// is closed, and sends every non-nil response to out paired with the message
// that caused it.
//
// Inspect events are consumed without producing output. They reach
// m.Inspect only when their ID matches a response this worker emitted and
// has not been inspected yet; anything else is dropped.
func Handle(m Module, in <-chan Event, out chan<- Output) {
	name := m.Name()
	slog.Debug("started module worker", "module", name)
	defer slog.Debug("stopped module worker", "module", name)

	// responses awaiting inspection, by trace id
	pending := make(map[snowflake.ID]int)
	emit := func(id snowflake.ID, origin *irc.Message, resp *Response) {
		pending[id]++
		out <- Output{ID: id, Module: name, Origin: origin, Response: resp}
	}

	for ev := range in {
		switch ev.Kind {
		case EventMessage:
			for _, resp := range dispatch(m, ev.Message, ev.Request) {
				if resp != nil {
					emit(ev.ID, ev.Message, resp)
				}
			}

		case EventTick:
			forgetBefore(pending, ev.Time.Add(-inspectWindow))
			if resp := m.Tick(ev.Time); resp != nil {
				emit(ev.ID, nil, resp)
			}

		case EventInspect:
			n := pending[ev.ID]
			if n == 0 {
				slog.Debug("dropping unmatched inspect event", "module", name, "trace", ev.ID)
				continue
			}
			if n == 1 {
				delete(pending, ev.ID)
			} else {
				pending[ev.ID] = n - 1
			}
			m.Inspect(ev.Message, ev.Response)

		default:
			slog.Warn("dropping unknown event", "module", name, "kind", ev.Kind)
		}
	}
}

func forgetBefore(pending map[snowflake.ID]int, cutoff time.Time) {
	for id := range pending {
		if id.Time().Before(cutoff) {
			delete(pending, id)
		}
	}
}
