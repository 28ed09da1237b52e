package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"resume-turns-be/internal/dto"
	"resume-turns-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Hub tracks websocket clients watching versions and pushes version events
// to them. With Redis configured, events are also relayed to the other
// instances through the cluster channel.
type Hub struct {
	// version id -> watching clients
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb        *redis.Client
	instanceId string

	// handlers that also see events relayed from other instances
	relayed []EventHandler

	// closed when Run returns
	done     chan struct{}
	stopOnce sync.Once

	logger logger.ILogger
}

// EventHandler is anything that reacts to a version event.
type EventHandler interface {
	HandleVersionEvent(ctx context.Context, event dto.VersionEvent) error
}

type clusterMessage struct {
	Origin          string          `json:"origin"`
	TargetVersionId string          `json:"target_version_id"`
	Message         json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		done:       make(chan struct{}),
		logger:     log,
	}
}

// RelayTo adds handlers for events written by other instances. Call it
// before Run.
func (h *Hub) RelayTo(handlers ...EventHandler) {
	h.relayed = append(h.relayed, handlers...)
}

func (h *Hub) Run(ctx context.Context) {
	defer h.stop()

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.VersionId] = append(h.clients[client.VersionId], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"version_id": client.VersionId})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// join registers client. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters client, or just closes it when the hub has stopped.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.VersionId]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.VersionId] = append(clients[:i], clients[i+1:]...)
			client.close()
			break
		}
	}
	if len(h.clients[client.VersionId]) == 0 {
		delete(h.clients, client.VersionId)
		h.logger.Info("Hub", "No more watchers", map[string]interface{}{"version_id": client.VersionId})
	}
}

// Watchers returns how many local clients watch a version.
func (h *Hub) Watchers(versionId uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[versionId])
}

// HandleVersionEvent delivers the event to local watchers of the version and
// relays it to the other instances.
func (h *Hub) HandleVersionEvent(ctx context.Context, event dto.VersionEvent) error {
	data, err := json.Marshal(map[string]interface{}{
		"type": strings.ToLower(event.Type),
		"data": event,
	})
	if err != nil {
		return err
	}

	h.deliver(event.VersionId, data)

	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterMessage{
		Origin:          h.instanceId,
		TargetVersionId: event.VersionId.String(),
		Message:         data,
	})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, clusterChannel, payload).Err()
}

func (h *Hub) deliver(versionId uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[versionId]...)
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		case <-client.done:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"version_id": versionId})
			go h.leave(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleCluster(ctx, []byte(msg.Payload))
		}
	}
}

// handleCluster delivers a message relayed by another instance to local
// watchers and to the relay handlers.
func (h *Hub) handleCluster(ctx context.Context, raw []byte) {
	var payload clusterMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if payload.Origin == h.instanceId {
		return
	}

	versionId, err := uuid.Parse(payload.TargetVersionId)
	if err != nil {
		return
	}
	h.deliver(versionId, payload.Message)

	if len(h.relayed) == 0 {
		return
	}
	var envelope struct {
		Data dto.VersionEvent `json:"data"`
	}
	if err := json.Unmarshal(payload.Message, &envelope); err != nil {
		h.logger.Warn("Hub", "Relayed event parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	for _, handler := range h.relayed {
		if err := handler.HandleVersionEvent(ctx, envelope.Data); err != nil {
			h.logger.Warn("Hub", "Relay handler failed", map[string]interface{}{
				"version_id": versionId,
				"error":      err.Error(),
			})
		}
	}
}
