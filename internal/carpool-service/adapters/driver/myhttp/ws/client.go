package ws

import (
	"context"
	"time"

	"decarpool/internal/carpool-service/core/domain/dto"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	egressSize = 16
)

type Client struct {
	ctx    context.Context
	conn   *websocket.Conn
	dis    *Dispatcher
	egress chan dto.RideEvent
	userID string
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, userID string) *Client {
	return &Client{
		ctx:    ctx,
		conn:   conn,
		dis:    dis,
		egress: make(chan dto.RideEvent, egressSize),
		userID: userID,
	}
}

// ReadMessage drains the connection so close frames are noticed; the
// feed is one-way, inbound payloads are ignored.
func (c *Client) ReadMessage() {
	defer c.dis.RemoveClient(c)

	c.conn.SetReadLimit(1024)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.dis.log.Action("ws_read").Warn("unexpected close", "user_id", c.userID, "reason", err.Error())
			}
			return
		}
	}
}

func (c *Client) WriteMessage() {
	defer c.conn.Close()

	for {
		select {
		case <-c.ctx.Done():
			return
		case event, ok := <-c.egress:
			if !ok {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				c.dis.log.Action("ws_write").Warn("cannot write event", "user_id", c.userID, "reason", err.Error())
				return
			}
		}
	}
}
