package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
)

// Frame is the wire envelope for everything the server pushes down a
// chat socket: generation deltas, completion, failures, and title
// updates from the suggestion flow.
type Frame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	Delta          string `json:"delta,omitempty"`
	Content        string `json:"content,omitempty"`
	Title          string `json:"title,omitempty"`
	Code           int    `json:"code,omitempty"`
	Message        string `json:"message,omitempty"`

	PromptTokens     int `json:"promptTokens,omitempty"`
	CompletionTokens int `json:"completionTokens,omitempty"`
}

const (
	FrameToken    = "token"
	FrameFinished = "finished"
	FrameError    = "error"
	FrameTitle    = "title"
)

func TokenFrame(conversationID, delta string) Frame {
	return Frame{Type: FrameToken, ConversationID: conversationID, Delta: delta}
}

func FinishedFrame(conversationID, content string, promptTokens, completionTokens int) Frame {
	return Frame{
		Type:             FrameFinished,
		ConversationID:   conversationID,
		Content:          content,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
	}
}

func ErrorFrame(conversationID string, code int, message string) Frame {
	return Frame{Type: FrameError, ConversationID: conversationID, Code: code, Message: message}
}

func TitleFrame(conversationID, title string) Frame {
	return Frame{Type: FrameTitle, ConversationID: conversationID, Title: title}
}

// CommandHandler receives frames sent BY the client (e.g. stop
// requests). It runs on the read goroutine of the connection.
type CommandHandler func(userID uuid.UUID, raw []byte)

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger

	onCommand CommandHandler
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

// SetCommandHandler wires incoming client frames to the chat service.
// Must be called before Run.
func (h *Hub) SetCommandHandler(handler CommandHandler) {
	h.onCommand = handler
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers a frame to every device of one user, locally and via
// Redis for peers on other instances.
func (h *Hub) Send(userID uuid.UUID, frame Frame) {
	data, _ := json.Marshal(frame)

	h.mu.RLock()
	clients, localFound := h.clients[userID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping frame", map[string]interface{}{"user_id": userID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	// Always publish for multi-device support across instances.
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_user_id": userID.String(),
			"message":        json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to "cluster_events"; frames carry their
	// target user, each instance delivers to the users it holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[uid]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					close(client.Send)
					h.unregister <- client
				}
			}
		}
	}
}
