package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/personnel-api/realtime"
	"github.com/yeremiapane/personnel-api/services"
	"github.com/yeremiapane/personnel-api/utils"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// NotificationSocketController streams unread counts to the caller over a
// WebSocket. Clients never send application messages; reads only service
// control frames and detect disconnects.
type NotificationSocketController struct {
	Notifications *services.NotificationService
	Hub           *realtime.Hub
	Upgrader      websocket.Upgrader
}

func NewNotificationSocketController(notifications *services.NotificationService, hub *realtime.Hub, allowOrigin string) *NotificationSocketController {
	return &NotificationSocketController{
		Notifications: notifications,
		Hub:           hub,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowOrigin == "*" || origin == "" || origin == allowOrigin
			},
		},
	}
}

// Stream -> GET /ws/notifications?token=
func (sc *NotificationSocketController) Stream(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	conn, err := sc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		utils.ErrorLogger.WithError(err).Error("websocket upgrade failed")
		return
	}

	// Register before counting so a change made in between is pushed too.
	sub := sc.Hub.Register(id, conn)
	defer sc.Hub.Unregister(sub)

	count, err := sc.Notifications.UnreadCount(c.Request.Context(), id)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("user_id", id).Error("initial unread count failed")
		return
	}
	if err := sub.Send(realtime.UnreadCountMessage(count)); err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)
	go sc.ping(sub, conn, done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (sc *NotificationSocketController) ping(sub *realtime.Subscriber, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := sub.Ping(); err != nil {
				conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}
