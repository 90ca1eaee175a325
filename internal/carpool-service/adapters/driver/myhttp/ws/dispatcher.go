package ws

import (
	"context"
	"net/http"
	"sync"

	"decarpool/internal/carpool-service/adapters/driver/myhttp/middleware"
	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/mylogger"

	"github.com/gorilla/websocket"
)

var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ClientList is a map used to help manage a map of clients
type ClientList map[*Client]bool

// Dispatcher fans ride lifecycle events out to every connected client.
type Dispatcher struct {
	ctx     context.Context
	clients ClientList
	sync.RWMutex
	log mylogger.Logger
}

func NewDispatcher(ctx context.Context, log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		ctx:     ctx,
		clients: make(ClientList),
		log:     log,
	}
}

// WsHandler upgrades the request into a feed connection. The token rides
// in a query parameter because browsers cannot set headers on websocket
// dials.
func (d *Dispatcher) WsHandler(auth *middleware.AuthMiddleware) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("wsHandler")

		userID, err := auth.ParseUserID(r.URL.Query().Get("token"))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(d.ctx, conn, d, userID)
		d.AddClient(client)
		log.Info("feed client connected", "user_id", userID)

		go client.ReadMessage()
		go client.WriteMessage()
	}
}

func (d *Dispatcher) AddClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	d.clients[client] = true
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.clients[client]; ok {
		close(client.egress)
		delete(d.clients, client)
	}
}

// Broadcast pushes an event to every connected client. Slow clients get
// dropped events, not a blocked dispatcher.
func (d *Dispatcher) Broadcast(ev dto.RideEvent) {
	d.RLock()
	defer d.RUnlock()

	for client := range d.clients {
		select {
		case client.egress <- ev:
		default:
			d.log.Action("broadcast").Warn("client egress full, dropping event", "user_id", client.userID)
		}
	}
}
