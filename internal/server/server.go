// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package server serves EXIF extraction over HTTP for the photo framing UI.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bep/framemeta"
	"github.com/bep/framemeta/internal/logging"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

// Server handles
//
//	POST /exif     body is the image, response is the ExifData as JSON
//	GET  /healthz
type Server struct {
	addr   string
	opts   framemeta.Options
	log    *slog.Logger
	server *http.Server
}

// New creates a new server listening on addr.
// opts are used for every extraction.
func New(addr string, opts framemeta.Options, log *slog.Logger) *Server {
	return &Server{
		addr: addr,
		opts: opts,
		log:  log,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/exif", s.handleExif).Methods(http.MethodPost)
	return r
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.log.Info("shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(ctxShutdown); err != nil {
			s.log.Error("shutdown failed", "error", err)
		}
	}()

	s.log.Info("server starting", "addr", s.addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleExif(w http.ResponseWriter, r *http.Request) {
	opts := s.opts
	opts.Warnf = logging.Warnf(s.log, "remote", r.RemoteAddr)

	// Only the head of the body is read.
	d := framemeta.ExtractFrom(r.Body, opts)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(d); err != nil {
		s.log.Error("encode response", "error", err)
	}
}
