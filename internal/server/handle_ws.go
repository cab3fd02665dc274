package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/geoboard/leaderboard/internal/metrics"
)

// handleBoardWS pushes a board's events to a websocket client as text
// messages. Anything the client sends is ignored.
func handleBoardWS(logger *slog.Logger, broker *Broker, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board := boardFrom(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ch := broker.Subscribe(board.ID)
		defer broker.Unsubscribe(board.ID, ch)
		m.LiveSubscribers.Inc()
		defer m.LiveSubscribers.Dec()

		// CloseRead drains incoming frames and cancels ctx once the peer
		// goes away.
		ctx := conn.CloseRead(r.Context())

		for {
			select {
			case <-ctx.Done():
				logger.Debug("websocket closed", "board", board.Slug)
				return
			case data := <-ch:
				wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
				err := conn.Write(wctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					logger.Debug("websocket write failed", "board", board.Slug, "error", err)
					return
				}
			}
		}
	}
}
