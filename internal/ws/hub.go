package ws

import (
	"encoding/json"
	"sync"

	"github.com/kpcrm/backend/internal/goroutine"
	"github.com/kpcrm/backend/internal/logger"
	"github.com/kpcrm/backend/internal/models"
)

// Hub управляет всеми WebSocket клиентами ленты активности. События не
// адресные: каждое подключение получает всю ленту целиком.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast рассылает событие ленты всем подключённым клиентам.
// Поле "type" в сообщении содержит имя события, поле "data" само событие.
// Вызов не блокирует отправителя: при переполненном буфере событие
// теряется, лента не является надёжным журналом.
func (h *Hub) Broadcast(event models.ActivityEvent) {
	payload := map[string]any{
		"type": event.Type,
		"data": event,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("ws: не удалось сериализовать событие %s: %v", event.Type, err)
		return
	}

	select {
	case h.broadcast <- raw:
	default:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Отстающего клиента закрываем из отдельной горутины:
			// Close шлёт в unregister, который обрабатывает этот же цикл.
			goroutine.SafeGo(client.Close)
		}
	}
}
