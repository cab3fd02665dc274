package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/geoboard/leaderboard/internal/metrics"
)

// handleEvents streams a board's result_recorded events as Server-Sent
// Events.
func handleEvents(broker *Broker, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		board := boardFrom(r)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		ch := broker.Subscribe(board.ID)
		defer broker.Unsubscribe(board.ID, ch)
		m.LiveSubscribers.Inc()
		defer m.LiveSubscribers.Dec()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventResultRecorded, data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
