package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/critex/internal/extract"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// jobStatusInterval is how often job state is pushed to subscribers.
const jobStatusInterval = 500 * time.Millisecond

// JobStatusMessage is one progress update pushed over the socket. The
// final message of a stream carries a terminal status and, when completed,
// the full result.
type JobStatusMessage struct {
	JobID  string         `json:"job_id"`
	Status extract.Status `json:"status"`
	Error  string         `json:"error,omitempty"`
	Result any            `json:"result,omitempty"`
}

// jobWebSocketHandler streams a job's lifecycle to the client. The stream
// ends after the terminal message; clients reconnecting to a finished job
// get the terminal message immediately.
func (s *Server) jobWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if _, ok := s.registry.Get(jobID); !ok {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	s.logger.Info("websocket subscriber attached",
		slog.String("job_id", jobID),
		slog.String("remote_addr", r.RemoteAddr))

	s.streamJobStatus(conn, jobID)
}

// streamJobStatus pushes state changes until the job reaches a terminal
// status or the connection breaks.
func (s *Server) streamJobStatus(conn *websocket.Conn, jobID string) {
	ticker := time.NewTicker(jobStatusInterval)
	defer ticker.Stop()

	var lastStatus extract.Status
	for {
		job, ok := s.registry.Get(jobID)
		if !ok {
			return
		}

		if job.Status != lastStatus {
			lastStatus = job.Status

			msg := JobStatusMessage{JobID: job.ID, Status: job.Status, Error: job.Error}
			if job.Status == extract.StatusCompleted {
				msg.Result = job.Result
			}
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Debug("websocket write failed, dropping subscriber",
					slog.String("job_id", jobID),
					slog.String("error", err.Error()))
				return
			}
		}

		if job.Status.Terminal() {
			return
		}
		<-ticker.C
	}
}
