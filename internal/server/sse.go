package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/smarthire/internal/types"
	"go.uber.org/zap"
)

// streamBuffer is the per-subscriber event buffer; slower clients drop events.
const streamBuffer = 32

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteComment sends a comment line, used as a keep-alive.
func (s *SSEWriter) WriteComment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// StreamSnapshot is the first event on a new stream.
type StreamSnapshot struct {
	Notifications []types.Notification `json:"notifications"`
	Toasts        []types.Toast        `json:"toasts"`
	Unread        int                  `json:"unread"`
}

// handleNotificationStream pushes notification and toast changes as they happen
func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	// The stream outlives the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	n := s.svc.Notifier()
	events, cancel := n.Subscribe(streamBuffer)
	defer cancel()

	snapshot := StreamSnapshot{Notifications: n.Notifications(), Toasts: n.Toasts(), Unread: n.UnreadCount()}
	if err := sse.WriteEvent("snapshot", snapshot); err != nil {
		return
	}

	ping := time.NewTicker(s.keepAlive)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.shutdown:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sse.WriteEvent(ev.Kind, ev.Data); err != nil {
				s.log.Debug("event stream write failed", zap.Error(err))
				return
			}
		case <-ping.C:
			if err := sse.WriteComment("ping"); err != nil {
				return
			}
		}
	}
}
