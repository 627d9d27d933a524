package server

import (
	"net/http"
	"path/filepath"

	"github.com/Pusher91/urlverdict/internal/aggregate"
	"github.com/Pusher91/urlverdict/internal/config"
	"github.com/Pusher91/urlverdict/internal/domain"
	"github.com/Pusher91/urlverdict/internal/hostintel"
	"github.com/Pusher91/urlverdict/internal/reputation"
	"github.com/Pusher91/urlverdict/internal/resolve"
	"github.com/Pusher91/urlverdict/internal/safebrowsing"
	"github.com/Pusher91/urlverdict/internal/server/api"
	"github.com/Pusher91/urlverdict/internal/store"
)

type Server struct {
	dataDir    string
	broker     *broker
	history    *store.History
	reputation *reputation.Client
	agg        *aggregate.Aggregator
}

func New(cfg config.Config) *Server {
	s := &Server{
		dataDir: cfg.DataDir,
		broker:  newBroker(),
	}

	kv, err := store.NewFileKV(filepath.Join(cfg.DataDir, "state"))
	if err != nil {
		panic(err)
	}
	history, err := store.OpenHistory(cfg.DataDir, s)
	if err != nil {
		panic(err)
	}
	s.history = history

	budget := reputation.NewBudgetStore(kv, "reputation_requests", cfg.VTDailyQuota)
	s.reputation = reputation.New(cfg.VTBaseURL, cfg.VTAPIKey, budget, cfg.VTPerMinute)

	resolver := resolve.New(cfg.ShodanBaseURL, cfg.ShodanAPIKey, cfg.DoHBaseURL)
	hosts := hostintel.New(cfg.ShodanBaseURL, cfg.ShodanAPIKey, resolver)

	var flags domain.FlagSource
	if cfg.GSBAPIKey != "" {
		flags = safebrowsing.New(cfg.GSBBaseURL, cfg.GSBAPIKey)
	}

	s.agg = aggregate.New(s.reputation, resolver, hosts, flags, history, s)
	return s
}

func (s *Server) DataDir() string { return s.dataDir }

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/events", s.handleEvents)

	handleAPIMethod(mux, "/api/scan", http.MethodPost, 1<<20, s.scanAPI)
	handleAPIMethod(mux, "/api/scan/links", http.MethodPost, 2<<20, s.scanLinksAPI)

	mux.HandleFunc("/api/history", api.WrapMethod(http.MethodGet, s.historyAPI))
	mux.HandleFunc("/api/quota", api.WrapMethod(http.MethodGet, s.quotaAPI))

	return mux
}

func handleAPIMethod(mux *http.ServeMux, path, method string, maxBytes int64, h api.Handler) {
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		api.WrapMethod(method, h)(w, r)
	})
}
