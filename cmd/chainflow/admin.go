package main

import (
	"encoding/json"
	"net/http"

	"github.com/cuemby/chainflow/pkg/cfevents"
	"github.com/cuemby/chainflow/pkg/engine"
)

// sendEventRequest is the wire shape send-event posts to adminHandler.
type sendEventRequest struct {
	EventID string `json:"event_id"`
	Chain   string `json:"chain,omitempty"` // empty means a system/broadcast event
}

// adminHandler accepts sendEventRequest posts and forwards them to eng,
// the minimal remote-control surface a running chainflow process exposes.
func adminHandler(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req sendEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.EventID == "" {
			http.Error(w, "event_id is required", http.StatusBadRequest)
			return
		}

		evt := cfevents.New(req.EventID, nil)
		var (
			accepted bool
			err      error
		)
		if req.Chain == "" {
			accepted, err = eng.SendSystemEvent(evt)
		} else {
			accepted, err = eng.SendNamedQueueEvent(req.Chain, evt)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if !accepted {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"accepted": accepted})
	}
}
