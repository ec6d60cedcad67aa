// Package sse implements a Server-Sent Events broker for shelf change
// notifications.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event types sent to clients.
const (
	TypeListCreated  = "list.created"
	TypeListUpdated  = "list.updated"
	TypeListDeleted  = "list.deleted"
	TypeShelfUpdated = "shelf.updated"
	TypeItemsUpdated = "items.updated"
)

// heartbeat is how often an idle stream receives a comment line so proxies
// keep the connection open.
const heartbeat = 25 * time.Second

// Event is one message on the stream. Data is JSON-encoded when sent.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type listEventReq struct {
	kind string
	slug string
}

// Broker fans shelf and item changes out to subscribed streams.
//
// A single event loop goroutine owns the client set, the sequence counter and
// the shelf throttle timestamp. Public methods talk to it over channels.
type Broker struct {
	shelfMin time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	listEventCh   chan listEventReq
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a new SSE broker. shelf.updated is sent at most once per
// shelfThrottle.
func NewBroker(shelfThrottle time.Duration) *Broker {
	if shelfThrottle <= 0 {
		shelfThrottle = 2 * time.Second
	}

	b := &Broker{
		shelfMin:      shelfThrottle,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		listEventCh:   make(chan listEventReq, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var (
		lastShelf time.Time
		seq       uint64
	)

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		seq++
		raw := []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", seq, event.Type, payload))

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Slow client; drop rather than block the loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case req := <-b.listEventCh:
			data := map[string]string{"slug": req.slug}
			switch req.kind {
			case "created":
				broadcast(Event{Type: TypeListCreated, Data: data})
			case "updated":
				broadcast(Event{Type: TypeListUpdated, Data: data})
			case "deleted":
				broadcast(Event{Type: TypeListDeleted, Data: data})
			default:
				continue
			}

			now := time.Now()
			if now.Sub(lastShelf) >= b.shelfMin {
				lastShelf = now
				broadcast(Event{Type: TypeShelfUpdated, Data: map[string]string{}})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close stops the broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a stream. The channel is closed on Unsubscribe or Close.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe drops ch from the broadcast set.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount reports how many streams are subscribed.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish queues event for every subscriber. Slow subscribers miss it.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishListEvent publishes a saved-list change followed by a throttled
// shelf.updated. kind is "created", "updated" or "deleted".
func (b *Broker) PublishListEvent(kind, slug string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.listEventCh <- listEventReq{kind: kind, slug: slug}:
	case <-b.stopped:
	}
}

// PublishItemsEvent announces a change to the flat item list.
func (b *Broker) PublishItemsEvent(packed, total int) {
	b.Publish(Event{Type: TypeItemsUpdated, Data: map[string]int{
		"packed_count": packed,
		"total_count":  total,
	}})
}

// ServeHTTP streams events to one client until it disconnects.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
