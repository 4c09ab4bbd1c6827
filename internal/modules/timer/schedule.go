package timer

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MaxDelay is the longest a timer may run.
const MaxDelay = 24 * time.Hour

var (
	// ErrInvalidDelay is returned for delays that are not positive or exceed MaxDelay.
	ErrInvalidDelay = errors.New("invalid delay")

	// ErrMissingText is returned when a timer has nothing to say.
	ErrMissingText = errors.New("missing timer text")
)

// Timer is a pending reminder.
type Timer struct {
	Channel string
	Text    string
	Due     time.Time
}

// ParseDelay reads a delay given in whole minutes, or as a Go duration such
// as "90s" or "1h30m".
func ParseDelay(s string) (time.Duration, error) {
	var d time.Duration
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 || n > int(MaxDelay/time.Minute) {
			return 0, fmt.Errorf("%w: %d minutes", ErrInvalidDelay, n)
		}
		d = time.Duration(n) * time.Minute
	} else if d, err = time.ParseDuration(s); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelay, s)
	}

	if d <= 0 || d > MaxDelay {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDelay, d)
	}
	return d, nil
}

// ParseArgs splits "<delay> <text>" into its parts.
func ParseArgs(args string) (time.Duration, string, error) {
	head, text, _ := strings.Cut(strings.TrimSpace(args), " ")
	d, err := ParseDelay(head)
	if err != nil {
		return 0, "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", ErrMissingText
	}
	return d, text, nil
}

// Schedule holds pending timers ordered by due time. It is not safe for
// concurrent use; the owning module's calls never overlap.
type Schedule struct {
	timers []Timer
}

// Add inserts t, keeping timers with equal due times in insertion order.
func (s *Schedule) Add(t Timer) {
	i := sort.Search(len(s.timers), func(i int) bool {
		return s.timers[i].Due.After(t.Due)
	})
	s.timers = append(s.timers, Timer{})
	copy(s.timers[i+1:], s.timers[i:])
	s.timers[i] = t
}

// PopDue removes and returns the earliest timer due at now.
func (s *Schedule) PopDue(now time.Time) (Timer, bool) {
	if len(s.timers) == 0 || s.timers[0].Due.After(now) {
		return Timer{}, false
	}
	t := s.timers[0]
	s.timers = s.timers[1:]
	return t, true
}

// Len returns the number of pending timers.
func (s *Schedule) Len() int {
	return len(s.timers)
}
