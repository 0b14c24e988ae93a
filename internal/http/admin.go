package httpadmin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/you/chat-fileout/internal/core"
	"github.com/you/chat-fileout/internal/trigger"
)

// Runner executes one export job synchronously, bypassing the queue. Used
// for manual reprocessing of a single (channel, video) pair.
type Runner interface {
	RunJob(ctx context.Context, trig core.Trigger) (rows int, err error)
}

type Server struct {
	run Runner
}

func New(run Runner) *Server { return &Server{run: run} }

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/admin/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		trig, err := trigger.ParseTrigger(body)
		if err != nil {
			http.Error(w, "bad trigger: "+err.Error(), http.StatusBadRequest)
			return
		}
		rows, err := s.run.RunJob(r.Context(), trig)
		if err != nil {
			http.Error(w, "run failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":     "ok",
			"rows":       rows,
			"channel_id": trig.ChannelID,
			"video_id":   trig.VideoID,
		})
	})
}
