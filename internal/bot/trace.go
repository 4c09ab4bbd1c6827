package bot

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// traceIDs hands out snowflake IDs that are unique and increasing within the
// process. IDs minted in the same millisecond take the next free sequence
// number in the low bits.
type traceIDs struct {
	mu   sync.Mutex
	last snowflake.ID
}

func (g *traceIDs) next(now time.Time) snowflake.ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := snowflake.New(now)
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
