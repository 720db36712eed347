package monitor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"github.com/tarancss/bridgebot/pipeline"
	"github.com/tarancss/bridgebot/runner"
)

// Errors returned to client requests.
var (
	ErrBadAddress = errors.New("a 20-byte hex address is required")
	ErrNotFound   = errors.New("account has not been processed")
)

// Response defines the data structure returned to the client making the http request.
type Response struct {
	Body  interface{} `json:"body,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Outcomes is the body of /outcomes.
type Outcomes struct {
	Outcomes []pipeline.Outcome `json:"outcomes"`
	Skipped  []runner.Skip      `json:"skipped"`
}

func (m *Monitor) reply(rw http.ResponseWriter, r *http.Request, status int, res Response) {
	m.log.Debug().Str("remote", r.RemoteAddr).Str("uri", r.RequestURI).Int("status", status).Msg("httpreq")

	rw.Header().Set("Content-Type", "application/json;charset=utf8")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(&res)
}

// homeHandler just replies a welcome message to the client.
func (m *Monitor) homeHandler(rw http.ResponseWriter, r *http.Request) {
	m.reply(rw, r, http.StatusOK, Response{Body: "Hello, this is bridgebot!"})
}

// outcomesHandler replies all the outcomes recorded so far.
func (m *Monitor) outcomesHandler(rw http.ResponseWriter, r *http.Request) {
	body := Outcomes{Outcomes: m.rep.Outcomes(), Skipped: m.rep.Skipped()}
	if body.Outcomes == nil {
		body.Outcomes = []pipeline.Outcome{}
	}
	if body.Skipped == nil {
		body.Skipped = []runner.Skip{}
	}

	m.reply(rw, r, http.StatusOK, Response{Body: body})
}

// outcomeHandler replies the outcome of the account in the uri.
func (m *Monitor) outcomeHandler(rw http.ResponseWriter, r *http.Request) {
	hex := mux.Vars(r)["address"]
	if !common.IsHexAddress(hex) {
		m.reply(rw, r, http.StatusBadRequest, Response{Error: ErrBadAddress.Error()})
		return
	}

	addr := common.HexToAddress(hex)
	for _, o := range m.rep.Outcomes() {
		if o.Account == addr {
			m.reply(rw, r, http.StatusOK, Response{Body: o})
			return
		}
	}

	m.reply(rw, r, http.StatusNotFound, Response{Error: ErrNotFound.Error()})
}
