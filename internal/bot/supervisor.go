package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// inbox is a module's bounded event queue. Publishing after close is a no-op.
type inbox struct {
	module string
	ch     chan Event
	mu     sync.RWMutex
	closed bool
}

func newInbox(module string, size int) *inbox {
	return &inbox{
		module: module,
		ch:     make(chan Event, size),
	}
}

// push blocks until the module accepts ev.
func (q *inbox) push(ev Event) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return
	}
	q.ch <- ev
}

// offer delivers ev only if the queue has room.
func (q *inbox) offer(ev Event) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return
	}
	select {
	case q.ch <- ev:
	default:
		slog.Warn("event buffer full, dropping event", "module", q.module, "type", ev.Kind)
	}
}

func (q *inbox) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// RunWorkers runs every module on its own goroutine via Handle and blocks
// until the transport closes and all queued work is flushed.
//
// Within one module events are handled in arrival order; ordering across
// modules is not guaranteed. Inbound messages are pushed with backpressure,
// ticks and inspect events are dropped when a module's queue is full. All
// responses pass through a single collection stage that runs the inspect
// hook, sends the rendered lines and hands an Inspect event back to the
// module that produced the response.
func (b *Bot) RunWorkers(ctx context.Context) error {
	size := b.config.QueueSize
	if size <= 0 {
		size = 1
	}
	interval := b.config.TickInterval
	if interval <= 0 {
		interval = time.Second
	}

	inboxes := make([]*inbox, len(b.modules))
	byName := make(map[string]*inbox, len(b.modules))
	out := make(chan Output, size)

	var workers sync.WaitGroup
	for i, mod := range b.modules {
		q := newInbox(mod.Name(), size)
		inboxes[i] = q
		byName[mod.Name()] = q

		workers.Add(1)
		go func() {
			defer workers.Done()
			Handle(mod, q.ch, out)
		}()
	}
	go func() {
		workers.Wait()
		close(out)
	}()

	g, gctx := errgroup.WithContext(ctx)
	readerDone := make(chan struct{})

	g.Go(func() error {
		defer close(readerDone)
		defer func() {
			for _, q := range inboxes {
				q.close()
			}
		}()

		for gctx.Err() == nil {
			line, ok := b.conn.ReadLine()
			if !ok {
				slog.Debug("connection closed, draining module workers")
				return nil
			}

			id := b.ids.next(time.Now())
			msg := b.receive(gctx, id, line)
			ev := MessageEvent(id, msg, b.deriveRequest(gctx, msg))
			for _, q := range inboxes {
				q.push(ev)
			}
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-readerDone:
				return nil
			case now := <-ticker.C:
				ev := TickEvent(b.ids.next(now), now)
				for _, q := range inboxes {
					q.offer(ev)
				}
			}
		}
	})

	g.Go(func() error {
		for o := range out {
			if o.Origin != nil {
				b.inspect(o.Origin, o.Response)
			}
			if err := b.responder.Respond(o.Origin, o.Response); err != nil {
				slog.Error("failed to respond", "trace", o.ID, "module", o.Module, "error", err)
			}
			if q, ok := byName[o.Module]; ok {
				q.offer(InspectEvent(o.ID, o.Origin, o.Response))
			}
		}
		return nil
	})

	return g.Wait()
}
