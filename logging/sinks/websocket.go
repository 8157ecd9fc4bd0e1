package sinks

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mine-and-die/pursuit/logging"
)

const websocketWriteWait = 5 * time.Second

type websocketSubscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *websocketSubscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(websocketWriteWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// WebSocket streams events to connected debug viewers. It doubles as the
// HTTP handler that accepts those viewers.
type WebSocket struct {
	upgrader    websocket.Upgrader
	logger      logging.Printer
	mu          sync.Mutex
	subscribers map[*websocketSubscriber]struct{}
}

func NewWebSocket(logger logging.Printer) *WebSocket {
	return &WebSocket{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:      logger,
		subscribers: make(map[*websocketSubscriber]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the viewer subscribed until it
// disconnects.
func (s *WebSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.printf("debug feed upgrade failed: %v", err)
		return
	}
	sub := &websocketSubscriber{conn: conn}
	s.mu.Lock()
	s.subscribers[sub] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer s.drop(sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Subscribers returns the number of connected viewers.
func (s *WebSocket) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *WebSocket) Write(event logging.Event) error {
	s.mu.Lock()
	if len(s.subscribers) == 0 {
		s.mu.Unlock()
		return nil
	}
	subs := make([]*websocketSubscriber, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	data, err := json.Marshal(wireEvent(event))
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := sub.write(data); err != nil {
			s.printf("debug feed write failed: %v", err)
			s.drop(sub)
		}
	}
	return nil
}

func (s *WebSocket) Close(context.Context) error {
	s.mu.Lock()
	subs := s.subscribers
	s.subscribers = make(map[*websocketSubscriber]struct{})
	s.mu.Unlock()
	for sub := range subs {
		message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
		sub.mu.Lock()
		_ = sub.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(websocketWriteWait))
		sub.mu.Unlock()
		sub.conn.Close()
	}
	return nil
}

func (s *WebSocket) drop(sub *websocketSubscriber) {
	s.mu.Lock()
	_, ok := s.subscribers[sub]
	delete(s.subscribers, sub)
	s.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}

func (s *WebSocket) printf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}
