package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"bistro-cms-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "editor_events"

// Hub fans messages out to the sockets subscribed to a topic. A topic is an
// editor session id. With Redis configured, messages also reach sockets held
// by other instances.
type Hub struct {
	// topic -> connected clients
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

// clusterMessage is what travels over Redis between instances.
type clusterMessage struct {
	Origin  string          `json:"origin"`
	Topic   string          `json:"topic"`
	Message json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]struct{}),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Topic] == nil {
				h.clients[client.Topic] = make(map[*Client]struct{})
			}
			h.clients[client.Topic][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"topic": client.Topic, "user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.Topic]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
				}
				if len(clients) == 0 {
					delete(h.clients, client.Topic)
					h.logger.Info("Hub", "Topic has no listeners left", map[string]interface{}{"topic": client.Topic})
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToTopic serializes v and delivers it to every socket on the topic.
func (h *Hub) SendToTopic(topic string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Hub", "Failed to serialize message", map[string]interface{}{"topic": topic, "error": err})
		return
	}

	h.deliverLocal(topic, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{Origin: h.instanceID, Topic: topic, Message: data})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish to cluster", map[string]interface{}{"topic": topic, "error": err.Error()})
		}
	}
}

// ClientCount is the number of local sockets on a topic.
func (h *Hub) ClientCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

func (h *Hub) deliverLocal(topic string, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients[topic] {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{"topic": topic, "user_id": client.UserID})
		go func(c *Client) { h.unregister <- c }(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Malformed cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}
		h.deliverLocal(payload.Topic, payload.Message)
	}
}
