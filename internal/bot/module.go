package bot

import (
	"context"
	"errors"
	"time"

	"github.com/sglre6355/shaken/internal/irc"
	"github.com/sglre6355/shaken/internal/user"
)

// InspectFunc observes a response together with the message that caused it.
type InspectFunc func(msg *irc.Message, resp *Response)

// UserDirectory is the persistent store of chatters. Implementations log
// their own failures and report them as absence.
type UserDirectory interface {
	Create(ctx context.Context, u user.User)
	ByID(ctx context.Context, id int64) (user.User, bool)
	ByName(ctx context.Context, name string) (user.User, bool)
}

// ModuleDependencies provides dependencies that modules may need during initialization.
type ModuleDependencies struct {
	Config *Config

	// Commands is the bot's command registry; modules build their
	// CommandMap against it.
	Commands *CommandRegistry

	Users   UserDirectory
	Version string

	// Ticks reports whether the bot will drive Tick. Modules that only
	// deliver their replies from Tick should return ErrModuleDisabled when
	// it is false.
	Ticks bool
}

// ErrModuleDisabled is returned from Init by a module that cannot work with
// the given dependencies. The bot skips such modules instead of failing.
var ErrModuleDisabled = errors.New("module disabled")

// Module defines the capabilities a bot module can provide. Every capability
// returning a *Response may return nil for "no reply". Embed Base to get
// no-op defaults and override only what the module needs.
//
// Capabilities must not block. The bot calls them either synchronously from
// its read loop or from the module's own worker goroutine (see Handle); in
// both cases calls to one module never overlap.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// Command answers a command invocation.
	Command(req *Request) *Response

	// Passive sees every chat message, matched command or not.
	Passive(msg *irc.Message) *Response

	// Event handles non-chat messages such as JOIN or USERNOTICE.
	Event(msg *irc.Message) *Response

	// Tick runs periodic housekeeping.
	Tick(now time.Time) *Response

	// Inspect observes a response this module produced, after it was sent.
	// msg is nil for responses emitted by Tick. Delivery is best effort:
	// under the worker dispatcher an Inspect is dropped when the module's
	// queue is full, so Inspect must not be used for accounting that has to
	// be exact.
	Inspect(msg *irc.Message, resp *Response)
}

// Initializer is an optional interface for modules that need setup, such as
// building their CommandMap. Init is called once before any dispatch.
type Initializer interface {
	Init(deps ModuleDependencies) error
}

// Shutdowner is an optional interface for modules holding resources.
type Shutdowner interface {
	Shutdown() error
}

// Base provides no-op implementations of every Module capability.
type Base struct{}

func (Base) Command(*Request) *Response      { return nil }
func (Base) Passive(*irc.Message) *Response  { return nil }
func (Base) Event(*irc.Message) *Response    { return nil }
func (Base) Tick(time.Time) *Response        { return nil }
func (Base) Inspect(*irc.Message, *Response) {}

// dispatch routes msg to m the way both invocation models do: chat messages
// go to Command (when a request was derived) and then Passive, everything
// else goes to Event. Results keep call order and may contain nils.
func dispatch(m Module, msg *irc.Message, req *Request) []*Response {
	if !msg.IsChat() {
		return []*Response{m.Event(msg)}
	}

	out := make([]*Response, 0, 2)
	if req != nil {
		out = append(out, m.Command(req))
	}
	return append(out, m.Passive(msg))
}
