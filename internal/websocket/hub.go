package websocket

import (
	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/rs/zerolog/log"
)

// AdminTopic receives every event.
const AdminTopic = "admin"

// UserTopic returns the topic carrying events about a user's listings.
func UserTopic(userID string) string {
	return "user:" + userID
}

type outbound struct {
	topic   string
	client  *Client
	message []byte
}

// Hub maintains the set of active clients and routes messages to them by topic.
// Its maps are only touched from Run.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Messages waiting to be routed to a topic or a single client.
	publish chan outbound

	// A map of topics to the set of clients subscribed to it.
	subscriptions map[string]map[*Client]bool

	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		publish:       make(chan outbound, 256),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = true
			for _, topic := range client.Topics {
				h.addSubscription(client, topic)
			}
			log.Info().Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case msg := <-h.publish:
			if msg.client != nil {
				if h.clients[msg.client] {
					h.deliver(msg.client, msg.message)
				}
				continue
			}
			for client := range h.subscriptions[msg.topic] {
				h.deliver(client, msg.message)
			}
		}
	}
}

func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		log.Warn().Str("user_id", client.UserID).Msg("Client send buffer full, dropping connection")
		h.drop(client)
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Publish queues a message for every client subscribed to topic. It never
// blocks; when the queue is full the message is dropped.
func (h *Hub) Publish(topic string, message []byte) {
	h.enqueue(outbound{topic: topic, message: message})
}

// SendTo queues a message for a single registered client.
func (h *Hub) SendTo(client *Client, message []byte) {
	h.enqueue(outbound{client: client, message: message})
}

func (h *Hub) enqueue(msg outbound) {
	select {
	case h.publish <- msg:
	default:
		log.Warn().Str("topic", msg.topic).Msg("Hub publish queue full, dropping message")
	}
}

// Attach registers the client with Run. It reports false once the hub has
// stopped.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// unregister hands the client back to Run unless the hub has stopped.
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// PublishEvent sends an audit event to administrators and, when the event
// concerns a user, to that user's topic.
func (h *Hub) PublishEvent(event models.Event) {
	message, err := NewEventMessage(event)
	if err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to encode event for websocket")
		return
	}
	h.Publish(AdminTopic, message)
	if event.UserID != nil && *event.UserID != "" {
		h.Publish(UserTopic(*event.UserID), message)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.removeSubscription(client)
}

func (h *Hub) addSubscription(client *Client, topic string) {
	if h.subscriptions[topic] == nil {
		h.subscriptions[topic] = make(map[*Client]bool)
	}
	h.subscriptions[topic][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for topic, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, topic)
			}
		}
	}
}
