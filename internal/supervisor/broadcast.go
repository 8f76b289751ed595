package supervisor

import (
	"sync"

	"github.com/goxlr-daemon/goxlrd/internal/metrics"
)

// broadcastBuffer bounds each subscriber's pending-patch queue. A slow
// subscriber drops patches rather than blocking the Supervisor's single
// status-publishing goroutine (§5's single-writer, many-reader channel).
const broadcastBuffer = 16

// Broadcaster fans status-patch bytes out to every subscribed client,
// grounded on the subscribe/unsubscribe/broadcast registry shape of a
// websocket presence hub, generalised from per-message routing to a
// single shared stream every subscriber receives in full.
type Broadcaster struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan []byte
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uint64]chan []byte)}
}

// Subscribe registers a new listener and returns its id and receive
// channel. Call Unsubscribe(id) when the client disconnects.
func (b *Broadcaster) Subscribe() (uint64, <-chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	ch := make(chan []byte, broadcastBuffer)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes and closes a subscriber's channel.
func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish fans patch out to every current subscriber, dropping it for any
// subscriber whose queue is full rather than blocking.
func (b *Broadcaster) Publish(patch []byte) {
	metrics.PatchesBroadcastTotal.Inc()
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- patch:
		default:
		}
	}
}
