// Package api serves the public query endpoints over the launch ledger.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"petpad-launchpad/internal/domain"
	"petpad-launchpad/internal/ledger"
	"petpad-launchpad/internal/observability"
	"petpad-launchpad/internal/scanner"
)

// Trading front-ends for launched tokens. Every token deploys to the same
// chain, so the URLs derive from the contract address alone.
const chartURLPrefix = "https://dexscreener.com/base/"

// StatusSource reports scanner progress for the health endpoint.
type StatusSource interface {
	Status() scanner.Status
}

// Server exposes the query API.
type Server struct {
	ledger         *ledger.Ledger
	status         StatusSource
	scannerEnabled bool
	uploadMethod   string
	uploadsDir     string
	start          time.Time
	logger         *log.Logger
}

// Options configures a Server.
type Options struct {
	Ledger *ledger.Ledger

	// Status is nil when the scanner is disabled; the API still serves.
	Status StatusSource

	// UploadMethod is reported in status responses.
	UploadMethod string

	// UploadsDir, when set, is served under /images/ for self-hosted uploads.
	UploadsDir string

	Logger *log.Logger
}

// NewServer creates a Server from options.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		ledger:         opts.Ledger,
		status:         opts.Status,
		scannerEnabled: opts.Status != nil,
		uploadMethod:   opts.UploadMethod,
		uploadsDir:     opts.UploadsDir,
		start:          time.Now(),
		logger:         logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/tokens", s.handleTokens)
	mux.HandleFunc("/api/launches", s.handleLaunches)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.Handle("/metrics", observability.Handler())
	if s.uploadsDir != "" {
		mux.Handle("/images/", http.StripPrefix("/images/", http.FileServer(http.Dir(s.uploadsDir))))
	}
	return withCORS(mux)
}

// withCORS allows browser clients on any origin to read the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("write response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// lastScan returns the last completed scan time, or nil before the first
// cycle or when the scanner is disabled.
func (s *Server) lastScan() any {
	if s.status == nil {
		return nil
	}
	t := s.status.Status().LastScan
	if t.IsZero() {
		return nil
	}
	return t
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	resp := map[string]any{
		"service":      "PetPad Launchpad",
		"status":       "ok",
		"uptime":       time.Since(s.start).String(),
		"uploadMethod": s.uploadMethod,
		"lastScan":     s.lastScan(),
		"endpoints": []string{
			"/api/health",
			"/api/tokens",
			"/api/launches",
			"/api/stats",
			"/metrics",
		},
	}
	if count, err := s.ledger.LaunchCount(r.Context()); err == nil {
		resp["tokensLaunched"] = count
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"success":        true,
		"status":         "ok",
		"uptime":         time.Since(s.start).String(),
		"uploadMethod":   s.uploadMethod,
		"lastScan":       s.lastScan(),
		"scannerEnabled": s.scannerEnabled,
	}
	if s.status != nil {
		st := s.status.Status()
		resp["scanCount"] = st.ScanCount
		resp["scanner"] = st
	}
	if count, err := s.ledger.LaunchCount(r.Context()); err == nil {
		resp["tokensLaunched"] = count
	}
	if count, err := s.ledger.ProcessedCount(r.Context()); err == nil {
		resp["processedPosts"] = count
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// tokenResponse is the /api/tokens entry shape.
type tokenResponse struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	PetType         string `json:"petType"`
	ContractAddress string `json:"contractAddress"`
	ImageURL        string `json:"imageUrl"`
	ChartURL        string `json:"chartUrl"`
	TradeURL        string `json:"tradeUrl"`
	LaunchPageURL   string `json:"launchPageUrl,omitempty"`
	Agent           string `json:"agent"`
	LaunchedAt      int64  `json:"launchedAt"`
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.Records(r.Context())
	if err != nil {
		s.logger.Printf("list tokens: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list tokens")
		return
	}

	tokens := make([]tokenResponse, 0, len(records))
	for _, rec := range records {
		tokens = append(tokens, tokenResponse{
			Name:            rec.Request.Name,
			Symbol:          rec.Request.Symbol,
			PetType:         string(rec.Request.PetType),
			ContractAddress: rec.ContractAddress,
			ImageURL:        rec.ImageURL,
			ChartURL:        chartURLPrefix + rec.ContractAddress,
			TradeURL:        tradeURL(rec.ContractAddress),
			LaunchPageURL:   rec.LaunchPageURL,
			Agent:           rec.AgentName,
			LaunchedAt:      rec.LaunchedAt,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"tokens": tokens,
		"count":  len(tokens),
	})
}

func tradeURL(contract string) string {
	return "https://app.uniswap.org/swap?outputCurrency=" + contract + "&chain=base"
}

// launchResponse is the /api/launches entry shape.
type launchResponse struct {
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	PetType         string  `json:"petType"`
	Description     string  `json:"description"`
	Wallet          string  `json:"wallet"`
	Website         *string `json:"website,omitempty"`
	Twitter         *string `json:"twitter,omitempty"`
	ImageURL        string  `json:"imageUrl"`
	ContractAddress string  `json:"contractAddress"`
	TxHash          string  `json:"txHash"`
	LaunchPageURL   string  `json:"launchPageUrl,omitempty"`
	SourcePostURL   string  `json:"sourcePostUrl"`
	AnnouncePostURL string  `json:"announcePostUrl"`
	Agent           string  `json:"agent"`
	LaunchedAt      int64   `json:"launchedAt"`
}

func (s *Server) handleLaunches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := ledger.ListFilter{
		Agent:   q.Get("agent"),
		PetType: q.Get("petType"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	page, err := s.ledger.List(r.Context(), filter)
	if err != nil {
		s.logger.Printf("list launches: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list launches")
		return
	}

	launches := make([]launchResponse, 0, len(page.Records))
	for _, rec := range page.Records {
		launches = append(launches, launchResponse{
			Name:            rec.Request.Name,
			Symbol:          rec.Request.Symbol,
			PetType:         string(rec.Request.PetType),
			Description:     rec.Request.Description,
			Wallet:          rec.Request.Wallet,
			Website:         rec.Request.Website,
			Twitter:         rec.Request.Twitter,
			ImageURL:        rec.ImageURL,
			ContractAddress: rec.ContractAddress,
			TxHash:          rec.TxHash,
			LaunchPageURL:   rec.LaunchPageURL,
			SourcePostURL:   rec.SourcePostURL,
			AnnouncePostURL: rec.AnnouncePostURL,
			Agent:           rec.AgentName,
			LaunchedAt:      rec.LaunchedAt,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"launches": launches,
		"pagination": map[string]any{
			"limit":   page.Limit,
			"offset":  page.Offset,
			"total":   page.Total,
			"hasMore": page.HasMore,
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := s.ledger.LaunchCount(ctx)
	if err != nil {
		s.logger.Printf("stats: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	counts, err := s.ledger.Stats(ctx)
	if err != nil {
		s.logger.Printf("stats: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	// Every pet type appears, including the ones with no launches yet.
	petTypeCounts := make(map[string]int, len(domain.PetTypes))
	for _, pet := range domain.PetTypes {
		petTypeCounts[string(pet)] = counts[pet]
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"totalLaunches": total,
		"petTypeCounts": petTypeCounts,
		"uploadMethod":  s.uploadMethod,
		"lastScan":      s.lastScan(),
	})
}
