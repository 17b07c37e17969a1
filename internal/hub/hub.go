// Package hub implements the in-process broadcast hub. It keeps the
// set of live websocket subscribers and fans domain events out to all
// of them. Membership is per-process; running multiple server
// instances would require an external pub/sub bus instead.
package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// EventNewQuestion and EventNewAnswer are the discriminator values
// used in the envelope's "type" field.
const (
	EventNewQuestion = "new_question"
	EventNewAnswer   = "new_answer"
)

// Event is the JSON envelope pushed to every live subscriber. Data
// carries the public fields of the just-persisted entity.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Subscriber is the handle for one live websocket connection. The
// write mutex serializes the broadcast path with the ping echo in the
// read loop; gorilla allows at most one concurrent writer per conn.
type Subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *Subscriber) send(payload []byte, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(timeout))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub holds the active subscriber set. All three operations are safe
// to call concurrently; the set is the only state shared across
// requests.
type Hub struct {
	mu           sync.RWMutex
	subs         map[*Subscriber]struct{}
	writeTimeout time.Duration
}

func New() *Hub {
	return &Hub{
		subs:         make(map[*Subscriber]struct{}),
		writeTimeout: 5 * time.Second,
	}
}

// Register wraps an upgraded connection in a Subscriber and adds it to
// the active set.
func (h *Hub) Register(conn *websocket.Conn) *Subscriber {
	s := &Subscriber{conn: conn}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unregister removes a subscriber from the active set and closes its
// connection. Unregistering an already-removed subscriber is a no-op.
func (h *Hub) Unregister(s *Subscriber) {
	h.mu.Lock()
	_, present := h.subs[s]
	delete(h.subs, s)
	h.mu.Unlock()
	if present {
		_ = s.conn.Close()
	}
}

// Count returns the number of active subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast serializes the event once and delivers it to every active
// subscriber. A failed or timed-out send evicts that subscriber and is
// otherwise swallowed: broadcast never fails the operation that
// triggered it, and one stalled subscriber cannot stall the rest
// beyond the write timeout.
func (h *Hub) Broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("hub: marshal %s event failed: %v", ev.Type, err)
		return
	}

	h.mu.RLock()
	targets := make([]*Subscriber, 0, len(h.subs))
	for s := range h.subs {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	var failed []*Subscriber
	for _, s := range targets {
		if err := s.send(payload, h.writeTimeout); err != nil {
			failed = append(failed, s)
		}
	}
	for _, s := range failed {
		h.Unregister(s)
	}
}
