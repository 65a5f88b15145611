package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dgallion1/freewrite/internal/editor"
)

const frameWriteTimeout = 10 * time.Second

// handleFrames streams document frames over a websocket. The first frame
// is the current document.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("failed to upgrade frame stream", "error", err)
		return
	}
	defer conn.Close()

	frames, cancel := s.session.Subscribe(256)
	defer cancel()

	snap := s.session.Snapshot()
	if err := writeFrame(conn, editor.Frame{Seq: snap.Seq, State: editor.StateReplaced, Markup: snap.Markup}); err != nil {
		return
	}

	// Reads only detect the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case fr, ok := <-frames:
			if !ok {
				return
			}
			if err := writeFrame(conn, fr); err != nil {
				s.log.Debug("frame stream closed", "error", err)
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, fr editor.Frame) error {
	conn.SetWriteDeadline(time.Now().Add(frameWriteTimeout))
	return conn.WriteJSON(fr)
}
