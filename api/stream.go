package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/snake-grid/game"
	"github.com/hoshinonyaruko/snake-grid/structs"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// directionMessage 客户端通过 websocket 发送的方向
type directionMessage struct {
	Direction string `json:"direction"`
}

// StreamHandler 每次快照更新都推送一次 JSON，客户端也可以发送方向
func StreamHandler(hub *game.Hub, input *game.Latch) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Errorf("Could not create websocket: %v", err)
			return
		}
		defer conn.Close()

		snapshots, cancel := hub.Subscribe()
		defer cancel()

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				var msg directionMessage
				if err := conn.ReadJSON(&msg); err != nil {
					return
				}
				dir, err := structs.ParseDirection(msg.Direction)
				if err != nil {
					log.Debugf("websocket: %v", err)
					continue
				}
				input.Press(dir)
			}
		}()

		for {
			select {
			case <-closed:
				return
			case snap, ok := <-snapshots:
				if !ok {
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "simulation stopped"),
						time.Now().Add(writeWait))
					return
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(snap); err != nil {
					log.Warningf("websocket write: %v", err)
					return
				}
			}
		}
	}
}
