// Package server exposes Huffman code construction and encoding over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	huffman "github.com/chronos-tachyon/huffcode"
	"github.com/chronos-tachyon/huffcode/internal/config"
	"github.com/chronos-tachyon/huffcode/tokenizer"
)

// maxBodyBytes bounds the size of request bodies.
const maxBodyBytes = 4 << 20

// Server represents the HTTP API server
type Server struct {
	cache  *codeCache
	server *http.Server
	log    zerolog.Logger
}

// SymbolCount is the JSON form of huffman.SymbolCount.
type SymbolCount struct {
	Symbol string `json:"symbol"`
	Count  uint64 `json:"count"`
}

// CodesRequest is the body of POST /v1/codes.  Exactly one of Counts and
// Symbols must be set.  Counts is applied in sorted symbol order; Symbols is
// applied in the order given.
type CodesRequest struct {
	Counts  map[string]uint64 `json:"counts,omitempty"`
	Symbols []SymbolCount     `json:"symbols,omitempty"`
}

// CodesResponse is the body returned by POST /v1/codes.
type CodesResponse struct {
	Codes   huffman.Dictionary `json:"codes"`
	Symbols int                `json:"symbols"`
	Cost    uint64             `json:"cost"`
}

// EncodeRequest is the body of POST /v1/encode.  If Vocabulary is empty, the
// distinct characters of Text are used.
type EncodeRequest struct {
	Text       string   `json:"text"`
	Vocabulary []string `json:"vocabulary,omitempty"`
}

// EncodeResponse is the body returned by POST /v1/encode.
type EncodeResponse struct {
	Codes   huffman.Dictionary `json:"codes"`
	Encoded string             `json:"encoded"`
	Bits    int                `json:"bits"`
}

// ErrorResponse is the body returned on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// New creates a new API server
func New(cfg config.ServerConfig, logger zerolog.Logger) (*Server, error) {
	cache, err := newCodeCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	s := &Server{
		cache: cache,
		log:   logger,
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.HandleFunc("/v1/codes", s.codes).Methods(http.MethodPost)
	r.HandleFunc("/v1/encode", s.encode).Methods(http.MethodPost)

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens and serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve on %s: %w", s.server.Addr, err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "cached": s.cache.len()})
}

func (s *Server) codes(w http.ResponseWriter, r *http.Request) {
	var req CodesRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Counts) != 0 && len(req.Symbols) != 0 {
		writeError(w, http.StatusBadRequest, errors.New("counts and symbols are mutually exclusive"))
		return
	}

	counts := req.symbolCounts()
	dict, hit, err := s.cache.dictionary(counts)
	if err != nil {
		s.log.Debug().Err(err).Int("symbols", len(counts)).Msg("Failed to build code")
		writeError(w, statusFor(err), err)
		return
	}
	s.log.Debug().Int("symbols", dict.Len()).Bool("cache_hit", hit).Msg("Built code")

	cost, err := dict.Cost(counts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, CodesResponse{
		Codes:   dict,
		Symbols: dict.Len(),
		Cost:    cost,
	})
}

func (s *Server) encode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if !s.decode(w, r, &req) {
		return
	}

	vocabulary := req.Vocabulary
	if len(vocabulary) == 0 {
		vocabulary = tokenizer.Characters(req.Text)
	}

	result, err := tokenizer.Tokenize(req.Text, vocabulary)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	dict, hit, err := s.cache.dictionary(result.Counts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	encoded, err := huffman.NewEncoder(dict).Encode(result.Tokens)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.log.Debug().Int("tokens", len(result.Tokens)).Int("bits", len(encoded)).Bool("cache_hit", hit).Msg("Encoded text")

	writeJSON(w, http.StatusOK, EncodeResponse{
		Codes:   dict,
		Encoded: encoded,
		Bits:    len(encoded),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

func (req CodesRequest) symbolCounts() []huffman.SymbolCount {
	if len(req.Symbols) != 0 {
		out := make([]huffman.SymbolCount, len(req.Symbols))
		for index, sc := range req.Symbols {
			out[index] = huffman.SymbolCount{Symbol: huffman.Symbol(sc.Symbol), Count: sc.Count}
		}
		return out
	}

	symbols := make([]string, 0, len(req.Counts))
	for symbol := range req.Counts {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	out := make([]huffman.SymbolCount, len(symbols))
	for index, symbol := range symbols {
		out[index] = huffman.SymbolCount{Symbol: huffman.Symbol(symbol), Count: req.Counts[symbol]}
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, huffman.ErrEmptyAlphabet),
		errors.Is(err, huffman.ErrCountOverflow),
		errors.Is(err, huffman.ErrUncodedSymbol),
		errors.Is(err, tokenizer.ErrUnrecognizedInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}
