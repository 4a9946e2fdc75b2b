package net

import (
	"encoding/json"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"railwatch/server/internal/events"
	"railwatch/server/internal/host"
	"railwatch/server/internal/net/proto"
	"railwatch/server/internal/net/ws"
	"railwatch/server/internal/observability"
	"railwatch/server/internal/telemetry"
	"railwatch/server/internal/trains"
	"railwatch/server/logging"
)

type HTTPHandlerConfig struct {
	Logger        telemetry.Logger
	Observability observability.Config
	// Router supplies logging throughput stats for /diagnostics; optional.
	Router *logging.Router
}

// NewHTTPHandler exposes the tracker's query surface: health, locate
// queries, diagnostics, metrics, and the websocket event stream.
func NewHTTPHandler(tracker *trains.Tracker, bus *events.Bus, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(func(string, ...any) {})
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/trains", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		criteria, err := criteriaFromQuery(r)
		if err != nil {
			httpError(w, err.Error(), nethttp.StatusBadRequest)
			return
		}

		found := tracker.Find(criteria)
		summaries := make([]proto.TrainSummary, 0, len(found))
		for _, f := range found {
			summaries = append(summaries, proto.NewTrainSummary(f.Train))
		}
		writeJSON(w, logger, summaries)
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status        string `json:"status"`
			ServerTime    int64  `json:"serverTime"`
			TrackedTrains int    `json:"trackedTrains"`
			TrackedIDs    []int  `json:"trackedIds"`
			LogEvents     uint64 `json:"logEvents"`
			LogDropped    uint64 `json:"logDropped"`
		}{
			Status:        "ok",
			ServerTime:    time.Now().UnixMilli(),
			TrackedTrains: tracker.Registry().Len(),
			TrackedIDs:    tracker.Registry().IDs(),
		}
		if cfg.Router != nil {
			stats := cfg.Router.Stats()
			payload.LogEvents = stats.EventsTotal
			payload.LogDropped = stats.DroppedTotal
		}
		writeJSON(w, logger, payload)
	})

	if cfg.Observability.EnableMetrics {
		observability.RegisterMetrics()
		mux.Handle("/metrics", promhttp.Handler())
	}

	mux.Handle("/ws", ws.NewHandler(bus, logger))

	return mux
}

func criteriaFromQuery(r *nethttp.Request) (trains.Criteria, error) {
	query := r.URL.Query()
	criteria := trains.Criteria{
		Surface:    query.Get("surface"),
		Faction:    query.Get("faction"),
		EntityName: query.Get("name"),
	}
	if raw := query.Get("state"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return trains.Criteria{}, err
		}
		state := host.TrainState(value)
		criteria.State = &state
	}
	return criteria, nil
}

func writeJSON(w nethttp.ResponseWriter, logger telemetry.Logger, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("failed to encode response: %v", err)
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	w.Write([]byte(message))
}
