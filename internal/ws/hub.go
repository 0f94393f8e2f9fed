package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans job updates out to the clients watching each ingestion job.
type Hub struct {
	mu   sync.RWMutex
	jobs map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		jobs: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(jobID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.jobs[jobID] == nil {
		h.jobs[jobID] = make(map[*websocket.Conn]bool)
	}
	h.jobs[jobID][conn] = true
	log.Printf("ws: client connected to job %s (total: %d)", jobID, len(h.jobs[jobID]))
}

func (h *Hub) RemoveConnection(jobID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.jobs[jobID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.jobs, jobID)
		}
		log.Printf("ws: client disconnected from job %s", jobID)
	}
}

func (h *Hub) Broadcast(jobID string, message WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.jobs[jobID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}
