package config

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader     websocket.Upgrader
	WriteTimeout time.Duration
	MaxMessage   int64
}

// NewWebSocket builds the upgrader for live game connections. Outside
// development the gorilla default same-origin check applies.
func NewWebSocket(development bool) (*WebSocket, error) {
	writeTimeout, err := durationEnv("WS_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	maxMessage, err := intEnv("WS_MAX_MESSAGE", 4096)
	if err != nil {
		return nil, err
	}

	upgrader := websocket.Upgrader{}
	if development {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}

	ws := &WebSocket{
		Upgrader:     upgrader,
		WriteTimeout: writeTimeout,
		MaxMessage:   int64(maxMessage),
	}

	return ws, nil
}
