package collector

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	logger "github.com/sirupsen/logrus"
)

const maxBody = 64 << 10

var Prom_received = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "collector_readings",
		Help: "Station uploads by result",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(Prom_received)
}

type handler struct {
	store *Store
}

// NewRouter wires the collector API onto a chi router.
func NewRouter(store *Store) http.Handler {
	h := &handler{store: store}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sensores", h.postReading)
		r.Get("/sensores/{id}", h.latest)
		r.Get("/agrokits", h.kits)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (h *handler) postReading(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&sub); err != nil {
		logger.Warnf("Bad upload [%v]", err)
		Prom_received.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if sub.DeviceID == "" {
		Prom_received.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id_agrokit"})
		return
	}

	id, err := h.store.Insert(sub)
	if err != nil {
		logger.Errorf("Insert failed for [%v] [%v]", sub.DeviceID, err)
		Prom_received.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "insert failed"})
		return
	}
	logger.Infof("Stored reading [%v] from [%v]", id, sub.DeviceID)
	Prom_received.WithLabelValues("stored").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (h *handler) latest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	records, err := h.store.Latest(id, LatestLimit)
	if err != nil {
		logger.Errorf("Select failed for [%v] [%v]", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db error"})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) kits(w http.ResponseWriter, r *http.Request) {
	kits, err := h.store.Kits()
	if err != nil {
		logger.Errorf("Kit list failed [%v]", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db error"})
		return
	}
	writeJSON(w, http.StatusOK, kits)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("JSON error [%v]", err)
	}
}
