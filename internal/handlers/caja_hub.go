package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// El hub de caja empuja los eventos del ciclo de vida (turno iniciado,
// cerrado, entregado; caja abierta, cerrada) a los tableros conectados.
// Es solo difusión: ninguna escritura del dominio pasa por aquí.

var cajaUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GlobalCajaHub es el único hub de la aplicación; main lo arranca.
var GlobalCajaHub = NewCajaHub()

// CajaEvent es el sobre JSON que reciben los tableros.
type CajaEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

type cajaClient struct {
	conn *websocket.Conn
	send chan []byte
}

type CajaHub struct {
	clients    map[*cajaClient]bool
	broadcast  chan []byte
	register   chan *cajaClient
	unregister chan *cajaClient
	mu         sync.Mutex
}

func NewCajaHub() *CajaHub {
	return &CajaHub{
		clients:    make(map[*cajaClient]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *cajaClient),
		unregister: make(chan *cajaClient),
	}
}

func (h *CajaHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Tablero de caja conectado", "clients", len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Cliente atascado: lo soltamos en lugar de bloquear al resto.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast serializa y difunde un evento de caja. Si el hub no corre o no
// hay clientes, el evento simplemente se descarta.
func (h *CajaHub) Broadcast(eventType string, payload interface{}) {
	data, err := json.Marshal(CajaEvent{Type: eventType, Payload: payload, At: time.Now()})
	if err != nil {
		slog.Error("No se pudo serializar el evento de caja", "type", eventType, "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// CajaWSEndpoint conecta un tablero al hub.
func CajaWSEndpoint(c *gin.Context) {
	conn, err := cajaUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Fallo el upgrade de websocket", "error", err)
		return
	}

	client := &cajaClient{conn: conn, send: make(chan []byte, 32)}
	GlobalCajaHub.register <- client

	go client.writePump()
	go client.readPump()
}

func (cl *cajaClient) writePump() {
	defer cl.conn.Close()
	for message := range cl.send {
		if err := cl.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump descarta lo que llegue: el canal es de solo lectura para el
// tablero, pero hay que drenar para detectar la desconexión.
func (cl *cajaClient) readPump() {
	defer func() {
		GlobalCajaHub.unregister <- cl
		cl.conn.Close()
	}()
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
