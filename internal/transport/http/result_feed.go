package http

import (
	"log"
	"net/http"
	"sync"

	"coges-quiz-app/internal/domain"

	"github.com/gorilla/websocket"
)

type resultEvent struct {
	Type    string        `json:"type"`
	Payload resultPayload `json:"payload"`
}

type resultPayload struct {
	Result     domain.Result `json:"result"`
	Percentage float64       `json:"percentage"`
}

// ResultFeed pushes every newly saved result to websocket subscribers, so a
// results board updates without polling GET /results.
type ResultFeed struct {
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[chan resultEvent]struct{}
}

func NewResultFeed() *ResultFeed {
	return &ResultFeed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subscribers: make(map[chan resultEvent]struct{}),
	}
}

// Publish fans a saved result out to all subscribers. A slow subscriber has
// its stale frame dropped rather than blocking the save path.
func (f *ResultFeed) Publish(result domain.Result) {
	event := resultEvent{
		Type: "result",
		Payload: resultPayload{
			Result:     result,
			Percentage: result.Percentage(),
		},
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	}
}

func (f *ResultFeed) subscribe() (chan resultEvent, func()) {
	ch := make(chan resultEvent, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// ServeWS handles GET /ws/results: upgrades the connection and streams saved
// results until the client goes away.
func (f *ResultFeed) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := f.subscribe()
	defer cancel()

	// Reader loop exists only to notice the peer closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
