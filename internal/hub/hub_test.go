package hub

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// newHubServer starts an Echo server exposing the hub at /ws and
// returns the hub plus a dialable ws:// URL.
func newHubServer(t *testing.T) (*Hub, string, func()) {
	t.Helper()
	h := New()
	e := echo.New()
	e.GET("/ws", h.Serve)
	srv := httptest.NewServer(e)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return h, url, srv.Close
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("unmarshal %q: %v", payload, err)
	}
	return ev
}

// waitForCount polls the hub until the subscriber count matches or the
// deadline passes. Registration happens on the server goroutine, so
// tests cannot observe it synchronously after dialing.
func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if h.Count() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("subscriber count = %d, want %d", h.Count(), want)
}

func TestBroadcast_FanOut(t *testing.T) {
	h, url, stop := newHubServer(t)
	defer stop()

	c1 := dial(t, url)
	defer c1.Close()
	c2 := dial(t, url)
	defer c2.Close()
	waitForCount(t, h, 2)

	h.Broadcast(Event{Type: EventNewQuestion, Data: map[string]string{"message": "help?"}})

	for _, c := range []*websocket.Conn{c1, c2} {
		ev := readEvent(t, c)
		if ev.Type != EventNewQuestion {
			t.Fatalf("event type = %q", ev.Type)
		}
		data, ok := ev.Data.(map[string]interface{})
		if !ok || data["message"] != "help?" {
			t.Fatalf("event data = %#v", ev.Data)
		}
	}
}

func TestBroadcast_EmissionOrder(t *testing.T) {
	h, url, stop := newHubServer(t)
	defer stop()

	c := dial(t, url)
	defer c.Close()
	waitForCount(t, h, 1)

	h.Broadcast(Event{Type: EventNewQuestion, Data: map[string]int{"n": 1}})
	h.Broadcast(Event{Type: EventNewAnswer, Data: map[string]int{"n": 2}})

	if ev := readEvent(t, c); ev.Type != EventNewQuestion {
		t.Fatalf("first event type = %q", ev.Type)
	}
	if ev := readEvent(t, c); ev.Type != EventNewAnswer {
		t.Fatalf("second event type = %q", ev.Type)
	}
}

func TestServe_PingEcho(t *testing.T) {
	h, url, stop := newHubServer(t)
	defer stop()

	c := dial(t, url)
	defer c.Close()
	waitForCount(t, h, 1)

	if err := c.WriteMessage(websocket.TextMessage, []byte("anything")); err != nil {
		t.Fatalf("write: %v", err)
	}
	ev := readEvent(t, c)
	if ev.Type != "ping" {
		t.Fatalf("echo type = %q", ev.Type)
	}
}

func TestServe_DisconnectRemovesSubscriber(t *testing.T) {
	h, url, stop := newHubServer(t)
	defer stop()

	c := dial(t, url)
	waitForCount(t, h, 1)

	c.Close()
	waitForCount(t, h, 0)
}

func TestUnregister_Idempotent(t *testing.T) {
	h := New()

	// Register directly so the read loop cannot race the explicit
	// unregister calls below.
	e := echo.New()
	e.GET("/raw", func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return nil
		}
		h.Register(conn)
		return nil
	})
	raw := httptest.NewServer(e)
	defer raw.Close()

	c := dial(t, "ws"+strings.TrimPrefix(raw.URL, "http")+"/raw")
	defer c.Close()
	waitForCount(t, h, 1)

	var sub *Subscriber
	h.mu.RLock()
	for s := range h.subs {
		sub = s
	}
	h.mu.RUnlock()

	h.Unregister(sub)
	h.Unregister(sub) // second call must be a no-op
	if h.Count() != 0 {
		t.Fatalf("count after double unregister = %d", h.Count())
	}
}

func TestBroadcast_FailedSendEvicts(t *testing.T) {
	h := New()
	e := echo.New()
	// Upgrade and register without a read loop, so eviction can only
	// happen through a failed broadcast send.
	e.GET("/raw", func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return nil
		}
		h.Register(conn)
		return nil
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	healthy := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http")+"/raw")
	defer healthy.Close()
	dead := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http")+"/raw")
	waitForCount(t, h, 2)

	// Kill the TCP connection without a close handshake; the next
	// writes to it will eventually fail.
	dead.UnderlyingConn().Close()

	deadline := time.Now().Add(3 * time.Second)
	for h.Count() > 1 && time.Now().Before(deadline) {
		h.Broadcast(Event{Type: EventNewQuestion, Data: map[string]int{"n": 1}})
		time.Sleep(20 * time.Millisecond)
	}
	if h.Count() != 1 {
		t.Fatalf("dead subscriber not evicted, count = %d", h.Count())
	}

	// The healthy subscriber keeps receiving broadcasts after the
	// eviction.
	h.Broadcast(Event{Type: EventNewAnswer, Data: map[string]int{"n": 2}})
	found := false
	_ = healthy.SetReadDeadline(time.Now().Add(3 * time.Second))
	for !found {
		_, payload, err := healthy.ReadMessage()
		if err != nil {
			t.Fatalf("healthy subscriber read: %v", err)
		}
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type == EventNewAnswer {
			found = true
		}
	}
}
