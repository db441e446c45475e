package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub fans submission events out to admins watching an exam's live
// monitor over websocket connections.
type Hub struct {
	clients         map[*Client]bool
	register        chan *Client
	unregister      chan *Client
	mutex           sync.RWMutex
	responseService *ResponseService
}

type Client struct {
	hub     *Hub
	id      string
	socket  *websocket.Conn
	send    chan []byte
	examID  uint
	adminID uint
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub(responseService *ResponseService) *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		responseService: responseService,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Monitor client %s connected for exam %d (admin %d) - total clients: %d",
				client.id, client.examID, client.adminID, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Monitor client %s disconnected from exam %d - total clients: %d",
					client.id, client.examID, len(h.clients))
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastToExam sends a typed message to every monitor client watching
// the given exam.
func (h *Hub) BroadcastToExam(examID uint, messageType string, payload interface{}) {
	message := Message{
		Type:    messageType,
		Payload: payload,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling monitor message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.examID != examID {
			continue
		}
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// SendStateSync pushes the current monitor snapshot to one client.
func (h *Hub) SendStateSync(client *Client) {
	state, err := h.responseService.GetMonitorState(client.examID)
	if err != nil {
		log.Printf("Error getting monitor state for exam %d: %v", client.examID, err)
		return
	}

	message := Message{
		Type:    "monitor_state",
		Payload: state,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling monitor state: %v", err)
		return
	}

	select {
	case client.send <- data:
	default:
		h.mutex.Lock()
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			close(client.send)
		}
		h.mutex.Unlock()
	}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, examID, adminID uint) *Client {
	client := &Client{
		hub:     h,
		id:      generateClientID(),
		socket:  conn,
		send:    make(chan []byte, 256),
		examID:  examID,
		adminID: adminID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	// New watchers start from the current snapshot
	h.SendStateSync(client)

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Monitor websocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling monitor message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}

	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		response := Message{Type: "pong", Payload: "pong"}
		data, _ := json.Marshal(response)
		c.send <- data

	case "request_state":
		c.hub.SendStateSync(c)

	default:
		log.Printf("Unknown monitor message type: %s from client %s (exam %d)", msg.Type, c.id, c.examID)
	}
}

func generateClientID() string {
	return fmt.Sprintf("monitor_%d", time.Now().UnixNano())
}
