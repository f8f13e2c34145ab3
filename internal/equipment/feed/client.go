package feed

import (
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/gnr-surgicals/inventory/internal/common/constants"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
)

// Client is one subscriber connection. The feed is server push only; inbound
// frames other than control frames are read and discarded.
type Client struct {
	hub       *Hub
	conn      *gorillaWS.Conn
	accountID string
	username  string
	send      chan []byte
	log       *logger.Logger
}

func NewClient(hub *Hub, conn *gorillaWS.Conn, accountID, username string, log *logger.Logger) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		accountID: accountID,
		username:  username,
		send:      make(chan []byte, constants.WebSocketSendBufSize),
		log:       log,
	}
}

func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(constants.WebSocketMaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(constants.WebSocketPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(constants.WebSocketPongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if gorillaWS.IsUnexpectedCloseError(err, gorillaWS.CloseGoingAway, gorillaWS.CloseAbnormalClosure) {
				c.log.Warnf("feed read error account_id=%s username=%s: %v", c.accountID, c.username, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(constants.WebSocketPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketWriteWait))
			if !ok {
				c.conn.WriteMessage(gorillaWS.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(gorillaWS.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketWriteWait))
			if err := c.conn.WriteMessage(gorillaWS.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
