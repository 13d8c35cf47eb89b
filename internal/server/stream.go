package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/coinpulse/internal/model"
	"github.com/rickgao/coinpulse/internal/poller"
)

const maxMessageSize = 512

// streamMessage is the websocket frame for one poll result.
type streamMessage struct {
	Activation string         `json:"activation"`
	At         time.Time      `json:"at"`
	Count      int            `json:"count"`
	Tickers    []model.Ticker `json:"tickers"`
	Error      string         `json:"error,omitempty"`
}

func newStreamMessage(r poller.Result, query string) streamMessage {
	msg := streamMessage{
		Activation: r.Activation,
		At:         r.At,
		Tickers:    model.FilterTickers(r.Tickers, query),
	}
	if msg.Tickers == nil {
		msg.Tickers = []model.Ticker{}
	}
	msg.Count = len(msg.Tickers)
	if r.Err != nil {
		msg.Error = r.Err.Error()
	}
	return msg
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	query := r.URL.Query().Get("q")
	results, unsubscribe := s.feed.Subscribe()
	defer unsubscribe()

	s.logger.Debug("stream subscriber connected", "remote", conn.RemoteAddr().String())

	done := make(chan struct{})
	go s.readPump(conn, done)
	s.writePump(conn, results, done, query)

	s.logger.Debug("stream subscriber disconnected", "remote", conn.RemoteAddr().String())
}

// readPump discards client frames and tracks pongs. It closes done when
// the client goes away.
func (s *Server) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, results <-chan poller.Result, done <-chan struct{}, query string) {
	ticker := time.NewTicker(s.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case r, ok := <-results:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(newStreamMessage(r, query)); err != nil {
				s.logger.Debug("stream write failed", "err", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.closing:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return

		case <-done:
			return
		}
	}
}
