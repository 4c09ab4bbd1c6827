package bot

import (
	"fmt"
	"log/slog"
)

// Handler answers a resolved command on behalf of the module this.
type Handler[T any] func(this T, req *Request) *Response

// CommandEntry pairs a bare command name with its handler.
type CommandEntry[T any] struct {
	Name    string
	Handler Handler[T]
}

// CommandMap is a module's dispatch table. It is immutable once built and
// may be shared between goroutines.
type CommandMap[T any] struct {
	namespace string
	entries   []CommandEntry[T]
}

// NewCommandMap registers every entry in reg under namespace and returns the
// resulting dispatch table. Registration is all-or-nothing: on a collision no
// name from entries is left in reg and no map is returned.
func NewCommandMap[T any](
	reg *CommandRegistry,
	namespace string,
	entries []CommandEntry[T],
) (*CommandMap[T], error) {
	cmds := make([]Command, 0, len(entries))
	for _, e := range entries {
		if e.Handler == nil {
			return nil, fmt.Errorf("%w: %q has no handler", ErrInvalidCommand, e.Name)
		}
		cmds = append(cmds, NewCommand(namespace, e.Name))
	}

	if err := reg.RegisterAll(cmds...); err != nil {
		slog.Warn("failed to register commands", "namespace", namespace, "error", err)
		return nil, err
	}

	return &CommandMap[T]{
		namespace: namespace,
		entries:   append([]CommandEntry[T](nil), entries...),
	}, nil
}

// Names returns the command names in registration order.
func (m *CommandMap[T]) Names() []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name
	}
	return names
}

// Dispatch invokes the handler whose name is the longest match for req and
// returns its response. Equal-length matches keep the earlier entry. When
// nothing matches no handler runs and Dispatch returns nil.
func (m *CommandMap[T]) Dispatch(this T, req *Request) *Response {
	var (
		best    *CommandEntry[T]
		bestReq *Request
	)

	for i := range m.entries {
		e := &m.entries[i]
		matched, ok := req.Search(e.Name)
		if !ok {
			continue
		}
		if best == nil || len(e.Name) > len(best.Name) {
			best, bestReq = e, matched
		}
	}

	if best == nil {
		return nil
	}

	slog.Debug("dispatching command", "namespace", m.namespace, "command", best.Name)
	return best.Handler(this, bestReq)
}
