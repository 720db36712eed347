// Package monitor implements the HTTP API that follows a run: Prometheus metrics and the outcome of every account
// processed so far.
package monitor

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tarancss/bridgebot/lib/metrics"
	"github.com/tarancss/bridgebot/runner"
)

const timeout = 15

// Monitor contains the data necessary to deliver the API.
type Monitor struct {
	rep *runner.Report
	log zerolog.Logger

	mu sync.Mutex
	s  *http.Server  // http server, set by Init
	sc chan struct{} // closed by Stop
}

// New returns a pointer to a new Monitor serving rep.
func New(rep *runner.Report, log zerolog.Logger) *Monitor {
	return &Monitor{rep: rep, log: log, sc: make(chan struct{})}
}

// Router returns the API definition.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", m.homeHandler)
	r.Handle("/metrics", metrics.Handler()).Methods("GET")               // Prometheus metrics
	r.HandleFunc("/outcomes", m.outcomesHandler).Methods("GET")          // all outcomes and skipped accounts
	r.HandleFunc("/outcomes/{address}", m.outcomeHandler).Methods("GET") // outcome of one account

	return r
}

// Init starts the http server on endpoint:port and waits for Stop. It returns nil when stopped, otherwise the reason
// the server ended.
func (m *Monitor) Init(endpoint, port string) error {
	m.mu.Lock()
	select {
	case <-m.sc:
		m.mu.Unlock()
		return nil
	default:
	}

	srv := &http.Server{
		Handler:      m.Router(),
		Addr:         endpoint + ":" + port,
		WriteTimeout: timeout * time.Second,
		ReadTimeout:  timeout * time.Second,
	}
	m.s = srv
	m.mu.Unlock()

	errc := make(chan error, 1)

	go func() {
		errc <- srv.ListenAndServe()
	}()

	m.log.Info().Str("addr", srv.Addr).Msg("listening to monitor http requests")

	select {
	case err := <-errc:
		return serveErr(err)
	case <-m.sc:
		return serveErr(<-errc)
	}
}

// Stop shuts down the http server. It can be called before Init and more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	select {
	case <-m.sc:
		m.mu.Unlock()
		return
	default:
		close(m.sc)
	}
	srv := m.s
	m.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(context.Background()); err != nil {
			m.log.Error().Err(err).Msg("error in http server shutdown")
		}
	}
}

func serveErr(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
