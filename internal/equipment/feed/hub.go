package feed

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/observability/metrics"
)

const broadcastQueueSize = 256

// Hub fans equipment events out to every connected client. Run owns the
// client set; everything else talks to it over channels.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
	count      atomic.Int64
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, broadcastQueueSize),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Publish queues an event without blocking the caller. Events are dropped
// when the queue is full or the hub has stopped.
func (h *Hub) Publish(event Event) {
	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- event:
	default:
		metrics.FeedEventsDropped.Inc()
		h.log.WithFields(context.Background(), logger.Fields{
			"type":   string(event.Type),
			"action": "feed_queue_full",
		}).Warn("feed queue full, event dropped")
	}
}

func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int64 {
	return h.count.Load()
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			total := h.count.Add(1)
			metrics.FeedConnectionsActive.Inc()
			h.log.WithFields(ctx, logger.Fields{
				"account_id": c.accountID,
				"username":   c.username,
				"total":      total,
				"action":     "feed_register",
			}).Info("feed client registered")

		case c := <-h.unregister:
			h.remove(c, "client_closed")

		case event := <-h.broadcast:
			h.fanOut(ctx, event)
		}
	}
}

func (h *Hub) fanOut(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.WithFields(ctx, logger.Fields{
			"type":   string(event.Type),
			"action": "feed_marshal",
		}).Errorf("feed marshal error: %v", err)
		return
	}

	metrics.FeedEventsBroadcast.WithLabelValues(string(event.Type)).Inc()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// A client that cannot keep up is cut off instead of stalling the hub.
			h.log.WithFields(ctx, logger.Fields{
				"account_id": c.accountID,
				"action":     "feed_slow_client",
			}).Warn("feed client too slow, disconnecting")
			h.remove(c, "slow_client")
		}
	}
}

func (h *Hub) remove(c *Client, reason string) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
	metrics.FeedConnectionsActive.Dec()
	metrics.FeedDisconnections.WithLabelValues(reason).Inc()
}

func (h *Hub) shutdown() {
	payload, _ := json.Marshal(Event{Type: EventShutdown})
	n := len(h.clients)

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
		h.remove(c, "shutdown")
	}

	h.log.WithFields(context.Background(), logger.Fields{
		"clients": n,
		"action":  "feed_hub_shutdown",
	}).Info("feed hub shutdown completed")
}
