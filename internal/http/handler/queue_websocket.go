package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"

	"backend-dispatch/internal/models"
)

/*
|--------------------------------------------------------------------------
| WebSocket Client Registry
|--------------------------------------------------------------------------
*/

type ClientInfo struct {
	conn         *websocket.Conn
	writeMux     sync.Mutex
	closeChan    chan struct{}
	closed       bool
	lastPongTime time.Time
	id           string
}

var (
	displayClients = make(map[*websocket.Conn]*ClientInfo)
	displayMutex   sync.RWMutex
	clientCounter  uint64 // atomic
	cleanupRunning bool
)

/*
|--------------------------------------------------------------------------
| Broadcast Gateway
|--------------------------------------------------------------------------
*/

// Hub fans dispatcher state changes out to every connected display.
// Queue updates are debounced so a burst of admissions still produces a
// single write per client; call announcements go out immediately.
type Hub struct {
	debounceTimer *time.Timer
	debounceMu    sync.Mutex
	pendingQueue  []models.Ticket

	debounceDelay time.Duration
}

func NewHub() *Hub {
	return &Hub{debounceDelay: 50 * time.Millisecond}
}

func (h *Hub) QueueChanged(queue []models.Ticket) {
	h.debounceMu.Lock()
	defer h.debounceMu.Unlock()

	h.pendingQueue = queue
	if h.debounceTimer != nil {
		h.debounceTimer.Reset(h.debounceDelay)
		return
	}

	h.debounceTimer = time.AfterFunc(h.debounceDelay, func() {
		h.debounceMu.Lock()
		h.debounceTimer = nil
		queue := h.pendingQueue
		h.debounceMu.Unlock()

		broadcastEvent("queue_changed", queue)
	})
}

func (h *Hub) CallChanged(call models.Call) {
	broadcastEvent("call_changed", call)
}

func (h *Hub) HistoryChanged(history []models.Call) {
	broadcastEvent("history_changed", history)
}

/*
|--------------------------------------------------------------------------
| WebSocket Handler
|--------------------------------------------------------------------------
*/

func DisplayWebSocket(c *websocket.Conn) {
	id := atomic.AddUint64(&clientCounter, 1)
	clientID := fmt.Sprintf("display-%d", id)

	client := &ClientInfo{
		conn:         c,
		closeChan:    make(chan struct{}),
		closed:       false,
		lastPongTime: time.Now(),
		id:           clientID,
	}

	log.Printf("[ws] %s connecting from %s", clientID, c.RemoteAddr())
	registerClient(c, client)
	defer unregisterClient(c, clientID)

	// Ping/pong handler
	c.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.SetPongHandler(func(string) error {
		client.writeMux.Lock()
		client.lastPongTime = time.Now()
		client.writeMux.Unlock()
		c.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send the current snapshot to this client only — displays expect it
	// right after connecting.
	go func() {
		time.Sleep(100 * time.Millisecond)
		sendSnapshot(client)
	}()

	// Ping ticker every 20 seconds
	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				client.writeMux.Lock()
				if client.closed {
					client.writeMux.Unlock()
					return
				}
				c.SetWriteDeadline(time.Now().Add(5 * time.Second))
				err := c.WriteMessage(websocket.PingMessage, nil)
				client.writeMux.Unlock()

				if err != nil {
					log.Printf("[ws] %s ping error: %v", clientID, err)
					return
				}
			case <-client.closeChan:
				return
			}
		}
	}()

	// Read loop
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure,
			) {
				log.Printf("[ws] %s unexpected close: %v", clientID, err)
			} else {
				log.Printf("[ws] %s closed normally", clientID)
			}
			return
		}
	}
}

/*
|--------------------------------------------------------------------------
| Client Management
|--------------------------------------------------------------------------
*/

func registerClient(c *websocket.Conn, client *ClientInfo) {
	displayMutex.Lock()
	displayClients[c] = client
	totalClients := len(displayClients)
	startCleanup := !cleanupRunning
	if startCleanup {
		cleanupRunning = true
	}
	displayMutex.Unlock()

	log.Printf("[ws] %s registered, total: %d", client.id, totalClients)

	if startCleanup {
		go periodicCleanup()
	}
}

func unregisterClient(c *websocket.Conn, clientID string) {
	displayMutex.Lock()
	client, exists := displayClients[c]
	if exists {
		client.writeMux.Lock()
		if !client.closed {
			client.closed = true
			close(client.closeChan)
		}
		client.writeMux.Unlock()
		delete(displayClients, c)
	}
	totalClients := len(displayClients)
	displayMutex.Unlock()

	_ = c.Close()
	log.Printf("[ws] %s unregistered, total: %d", clientID, totalClients)
}

// periodicCleanup drops dead connections every 30 seconds.
func periodicCleanup() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		displayMutex.Lock()
		if len(displayClients) == 0 {
			cleanupRunning = false
			displayMutex.Unlock()
			log.Println("[ws] No clients, stopping cleanup goroutine")
			return
		}
		displayMutex.Unlock()

		now := time.Now()
		var toRemove []*websocket.Conn

		displayMutex.RLock()
		for conn, client := range displayClients {
			client.writeMux.Lock()
			stale := now.Sub(client.lastPongTime) > 90*time.Second
			client.writeMux.Unlock()

			if stale {
				log.Printf("[ws] %s dead (no pong), marking for removal", client.id)
				toRemove = append(toRemove, conn)
			}
		}
		displayMutex.RUnlock()

		if len(toRemove) == 0 {
			continue
		}

		displayMutex.Lock()
		for _, conn := range toRemove {
			if client, exists := displayClients[conn]; exists {
				client.writeMux.Lock()
				if !client.closed {
					client.closed = true
					close(client.closeChan)
				}
				client.writeMux.Unlock()
				delete(displayClients, conn)
				conn.Close()
				log.Printf("[ws] %s cleaned up", client.id)
			}
		}
		log.Printf("[ws] Cleaned %d dead clients, remaining: %d", len(toRemove), len(displayClients))
		displayMutex.Unlock()
	}
}

/*
|--------------------------------------------------------------------------
| Broadcast Logic
|--------------------------------------------------------------------------
*/

func buildEvent(event string, data interface{}) ([]byte, error) {
	payload := map[string]interface{}{
		"type":      event,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	return json.Marshal(payload)
}

// sendSnapshot pushes the full state to one new client.
func sendSnapshot(client *ClientInfo) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	queue, current, history, err := Core.State(ctx)
	if err != nil {
		// Store is down: still send the call state, queue comes through
		// on the next successful change.
		log.Printf("[ws] snapshot for %s degraded: %v", client.id, err)
	}

	message, err := buildEvent("snapshot", map[string]interface{}{
		"queue":        queue,
		"current_call": current,
		"history":      history,
	})
	if err != nil {
		log.Printf("[ws] sendSnapshot error: %v", err)
		return
	}
	writeToClient(client, message)
}

// broadcastEvent sends one event to every connected client.
func broadcastEvent(event string, data interface{}) {
	message, err := buildEvent(event, data)
	if err != nil {
		log.Printf("[ws] broadcastEvent error: %v", err)
		return
	}

	// Snapshot clients
	displayMutex.RLock()
	clients := make([]*ClientInfo, 0, len(displayClients))
	for _, client := range displayClients {
		clients = append(clients, client)
	}
	displayMutex.RUnlock()

	if len(clients) == 0 {
		return
	}

	// Worker pool max 20 goroutines
	const maxWorkers = 20
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for _, client := range clients {
		wg.Add(1)
		sem <- struct{}{}
		go func(c *ClientInfo) {
			defer wg.Done()
			defer func() { <-sem }()
			writeToClient(c, message)
		}(client)
	}

	wg.Wait()
}

// writeToClient sends a message to one client, handling error cleanup.
func writeToClient(c *ClientInfo, message []byte) {
	c.writeMux.Lock()
	defer c.writeMux.Unlock()

	if c.closed {
		return
	}

	c.conn.SetWriteDeadline(time.Now().Add(3 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		log.Printf("[ws] %s write error: %v", c.id, err)
		c.closed = true
		select {
		case <-c.closeChan:
		default:
			close(c.closeChan)
		}

		go func(conn *websocket.Conn, id string) {
			displayMutex.Lock()
			delete(displayClients, conn)
			displayMutex.Unlock()
			conn.Close()
			log.Printf("[ws] %s removed after write error", id)
		}(c.conn, c.id)
	}
}
