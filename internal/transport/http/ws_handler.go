package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
	"github.com/lijamez/tonbot-plugin-trivia/internal/trivia"
)

// WSHandler exposes trivia rounds over websockets. Every connection joins a
// channel; round lifecycle events are broadcast to all members of that
// channel, which stands in for the chat transport a bot would use.
type WSHandler struct {
	manager  *trivia.Manager
	upgrader websocket.Upgrader

	mu   sync.Mutex
	hubs map[trivia.SessionKey]*channelHub
}

func NewWSHandler(manager *trivia.Manager) *WSHandler {
	return &WSHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		hubs: make(map[trivia.SessionKey]*channelHub),
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type playPayload struct {
	Pack       string `json:"pack"`
	Difficulty string `json:"difficulty"`
}

type sayPayload struct {
	Text      string `json:"text"`
	MessageID string `json:"messageId"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type packListPayload struct {
	Names []string `json:"names"`
}

// ServeWS upgrades the request and wires the connection into its channel.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guildId")
	channelID := r.URL.Query().Get("channelId")
	userID := r.URL.Query().Get("userId")
	if channelID == "" || userID == "" {
		http.Error(w, "missing channelId or userId", http.StatusBadRequest)
		return
	}
	key := trivia.SessionKey{GuildID: guildID, ChannelID: channelID}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	hub := h.hub(key)
	client := hub.join()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range client.send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "play":
			var payload playPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				client.trySend(outboundMessage{Type: "error", Payload: errorPayload{Message: "invalid play payload"}})
				continue
			}
			_, err := h.manager.CreateSession(r.Context(), key, payload.Pack, payload.Difficulty, &channelListener{hub: hub})
			if err != nil {
				client.trySend(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
			}
		case "stop":
			h.manager.CancelSession(key)
		case "say":
			var payload sayPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				client.trySend(outboundMessage{Type: "error", Payload: errorPayload{Message: "invalid say payload"}})
				continue
			}
			ref, err := uuid.Parse(payload.MessageID)
			if err != nil {
				ref = uuid.New()
			}
			h.manager.HandleMessage(key, domain.Submission{
				ParticipantID: userID,
				Text:          payload.Text,
				SubmittedAt:   time.Now(),
				Ref:           ref,
			})
		case "list":
			names, err := h.manager.ListPacks(r.Context())
			if err != nil {
				client.trySend(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			client.trySend(outboundMessage{Type: "packs", Payload: packListPayload{Names: names}})
		default:
			client.trySend(outboundMessage{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	// Leave before closing so no broadcast can hit a closed channel.
	hub.leave(client)
	h.dropIfEmpty(key)
	close(client.send)
	<-writerDone
}

func (h *WSHandler) hub(key trivia.SessionKey) *channelHub {
	h.mu.Lock()
	defer h.mu.Unlock()
	hub, ok := h.hubs[key]
	if !ok {
		hub = newChannelHub()
		h.hubs[key] = hub
	}
	return hub
}

func (h *WSHandler) dropIfEmpty(key trivia.SessionKey) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hub, ok := h.hubs[key]; ok && hub.empty() {
		delete(h.hubs, key)
	}
}

// channelHub fans lifecycle events out to every connection in one channel.
type channelHub struct {
	mu      sync.Mutex
	clients map[*hubClient]struct{}
}

type hubClient struct {
	send chan outboundMessage
}

func newChannelHub() *channelHub {
	return &channelHub{clients: make(map[*hubClient]struct{})}
}

func (hub *channelHub) join() *hubClient {
	c := &hubClient{send: make(chan outboundMessage, 32)}
	hub.mu.Lock()
	hub.clients[c] = struct{}{}
	hub.mu.Unlock()
	return c
}

func (hub *channelHub) leave(c *hubClient) {
	hub.mu.Lock()
	delete(hub.clients, c)
	hub.mu.Unlock()
}

func (hub *channelHub) empty() bool {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.clients) == 0
}

func (hub *channelHub) broadcast(msg outboundMessage) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for c := range hub.clients {
		c.trySend(msg)
	}
}

// trySend drops the oldest pending frame rather than letting a slow client
// stall the session goroutine.
func (c *hubClient) trySend(msg outboundMessage) {
	select {
	case c.send <- msg:
	default:
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}
