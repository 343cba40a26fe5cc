package server

import (
	"log"
	"sync"

	"fightclub/internal/game"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// MatchStartMsg announces a new match to spectators.
type MatchStartMsg struct {
	Type  string   `msgpack:"type"`
	Names []string `msgpack:"names"`
	Seed  int64    `msgpack:"seed"`
}

// HitMsg relays a landed hit.
type HitMsg struct {
	Type string        `msgpack:"type"`
	Hit  game.HitEvent `msgpack:"hit"`
}

// EliminatedMsg relays an elimination for the kill feed.
type EliminatedMsg struct {
	Type        string                `msgpack:"type"`
	Elimination game.EliminationEvent `msgpack:"elimination"`
}

// MatchEndMsg carries the final standings.
type MatchEndMsg struct {
	Type   string      `msgpack:"type"`
	Result game.Result `msgpack:"result"`
}

// Hub fans match state out to every connected spectator. It implements
// game.EventSink so it can sit next to other sinks on the match.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint32]*Client
	nextID  uint32

	// Replayed to spectators that join mid match.
	start []byte
	last  []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint32]*Client),
		nextID:  1,
	}
}

// AddClient registers a spectator and sends it the current match state.
func (h *Hub) AddClient(conn *websocket.Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	client := NewClient(h.nextID, conn)
	h.nextID++
	h.clients[client.ID] = client

	for _, data := range [][]byte{h.start, h.last} {
		if data != nil {
			client.queue(data)
		}
	}

	log.Printf("Spectator %d joined (%d watching)", client.ID, len(h.clients))
	return client
}

// RemoveClient drops a spectator and closes its queue.
func (h *Hub) RemoveClient(id uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[id]; ok {
		close(client.Send)
		delete(h.clients, id)
		log.Printf("Spectator %d left (%d watching)", id, len(h.clients))
	}
}

// Count returns the number of connected spectators.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues data for every spectator. Slow spectators miss the message.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if !client.queue(data) {
			log.Printf("Could not send to spectator %d", client.ID)
		}
	}
}

// PublishSnapshot encodes and broadcasts a frame. It matches the publish
// callback of game.Match.Run.
func (h *Hub) PublishSnapshot(s game.Snapshot) {
	data, err := game.EncodeSnapshot(s)
	if err != nil {
		log.Printf("Error marshaling snapshot: %v", err)
		return
	}

	h.mu.Lock()
	h.last = data
	h.mu.Unlock()

	h.Broadcast(data)
}

func (h *Hub) MatchStarted(e game.MatchStart) {
	names := make([]string, len(e.Roster))
	for i, p := range e.Roster {
		names[i] = p.Name
	}

	data := h.encode(MatchStartMsg{Type: game.MsgTypeMatchStart, Names: names, Seed: e.Seed})
	if data == nil {
		return
	}

	h.mu.Lock()
	h.start = data
	h.last = nil
	h.mu.Unlock()

	h.Broadcast(data)
}

func (h *Hub) Hit(e game.HitEvent) {
	h.send(HitMsg{Type: game.MsgTypeHit, Hit: e})
}

func (h *Hub) Eliminated(e game.EliminationEvent) {
	h.send(EliminatedMsg{Type: game.MsgTypeEliminated, Elimination: e})
}

func (h *Hub) MatchEnded(r game.Result) {
	h.send(MatchEndMsg{Type: game.MsgTypeMatchEnd, Result: r})
}

func (h *Hub) send(msg any) {
	if data := h.encode(msg); data != nil {
		h.Broadcast(data)
	}
}

func (h *Hub) encode(msg any) []byte {
	data, err := msgpack.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling %T: %v", msg, err)
		return nil
	}
	return data
}
