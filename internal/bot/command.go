package bot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrCommandAlreadyExists is returned when a bare command name is already
	// owned by some namespace.
	ErrCommandAlreadyExists = errors.New("command already exists")

	// ErrInvalidCommand is returned for commands without a usable name.
	ErrInvalidCommand = errors.New("invalid command")
)

// Command is a command name qualified by the namespace (module) that owns it.
// Uniqueness is enforced on the bare name alone.
type Command struct {
	name      string
	namespace string
}

// NewCommand creates a Command.
func NewCommand(namespace, name string) Command {
	return Command{name: name, namespace: namespace}
}

// Name returns the bare command name.
func (c Command) Name() string { return c.name }

// Namespace returns the owning namespace.
func (c Command) Namespace() string { return c.namespace }

// String returns the fully-qualified name.
func (c Command) String() string {
	return c.namespace + "/" + c.name
}

// CommandRegistry is the set of every command registered during the
// lifetime of a bot. It only grows.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewCommandRegistry creates an empty registry. A bot owns exactly one.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]Command),
	}
}

// Register adds a single command.
func (r *CommandRegistry) Register(cmd Command) error {
	return r.RegisterAll(cmd)
}

// RegisterAll adds every command or none of them. It fails if any bare name
// is already registered or appears twice in cmds.
func (r *CommandRegistry) RegisterAll(cmds ...Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := make(map[string]Command, len(cmds))
	for _, cmd := range cmds {
		if strings.TrimSpace(cmd.name) == "" || strings.ContainsFunc(cmd.name, isSpace) {
			return fmt.Errorf("%w: %q", ErrInvalidCommand, cmd.String())
		}
		if owner, ok := r.commands[cmd.name]; ok {
			return fmt.Errorf("%w: %q is owned by %q", ErrCommandAlreadyExists, cmd.name, owner.namespace)
		}
		if owner, ok := staged[cmd.name]; ok {
			return fmt.Errorf("%w: %q is declared twice by %q", ErrCommandAlreadyExists, cmd.name, owner.namespace)
		}
		staged[cmd.name] = cmd
	}

	for name, cmd := range staged {
		r.commands[name] = cmd
	}
	return nil
}

// Exists reports whether name is registered.
func (r *CommandRegistry) Exists(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Lookup returns the command registered under name.
func (r *CommandRegistry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Commands returns every registered command sorted by name.
func (r *CommandRegistry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].name < result[j].name
	})
	return result
}
