package server

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/app"
	"github.com/iov-one/relay/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

// maxTxSize limits the request envelope accepted by POST /tx.
const maxTxSize = 1 << 20

// Application is what the daemon serves over HTTP.
type Application interface {
	Name() string
	GetChainID() uint64
	InitChain(chainID uint64, appState []byte) error
	DeliverTx(txBytes []byte) app.TxResponse
	Query(path string, data []byte) app.QueryResponse
}

// TxResult is the JSON rendering of a delivered request.
type TxResult struct {
	Code    uint32        `json:"code"`
	Log     string        `json:"log,omitempty"`
	Data    hexutil.Bytes `json:"data,omitempty"`
	GasUsed uint64        `json:"gas_used"`
}

// QueryResult is the JSON rendering of a query.
type QueryResult struct {
	Code   uint32      `json:"code"`
	Log    string      `json:"log,omitempty"`
	Models []ModelPair `json:"models"`
}

// ModelPair is a single key/value query result.
type ModelPair struct {
	Key   hexutil.Bytes `json:"key"`
	Value hexutil.Bytes `json:"value"`
}

// Status describes the running daemon.
type Status struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	ChainID uint64 `json:"chain_id"`
}

// NewHandler returns the HTTP surface of the daemon:
//
//	POST /tx                      submit an RLP encoded envelope
//	GET  /query?path=&data=0x..   run a query
//	GET  /status                  name, version and chain id
//	GET  /metrics                 prometheus metrics
func NewHandler(a Application, logger log.Logger) http.Handler {
	h := &httpHandler{app: a, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/tx", h.tx)
	mux.HandleFunc("/query", h.query)
	mux.HandleFunc("/status", h.status)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

type httpHandler struct {
	app    Application
	logger log.Logger
}

func (h *httpHandler) tx(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.fail(w, http.StatusMethodNotAllowed, errors.Wrapf(errors.ErrInput, "method %s not allowed", r.Method))
		return
	}
	raw, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxTxSize))
	if err != nil {
		h.fail(w, http.StatusRequestEntityTooLarge, errors.Wrap(errors.ErrInput, err.Error()))
		return
	}
	if len(raw) == 0 {
		h.fail(w, http.StatusBadRequest, errors.Wrap(errors.ErrEmpty, "envelope"))
		return
	}
	res := h.app.DeliverTx(raw)
	h.logger.Debug("Delivered request", "code", res.Code, "gas", res.GasUsed)
	h.write(w, http.StatusOK, TxResult{
		Code:    res.Code,
		Log:     res.Log,
		Data:    res.Data,
		GasUsed: res.GasUsed,
	})
}

func (h *httpHandler) query(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.fail(w, http.StatusMethodNotAllowed, errors.Wrapf(errors.ErrInput, "method %s not allowed", r.Method))
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		h.fail(w, http.StatusBadRequest, errors.Wrap(errors.ErrEmpty, "path"))
		return
	}
	var data []byte
	if s := r.URL.Query().Get("data"); s != "" {
		d, err := hexutil.Decode(s)
		if err != nil {
			h.fail(w, http.StatusBadRequest, errors.Wrapf(errors.ErrInput, "data: %s", err))
			return
		}
		data = d
	}

	res := h.app.Query(path, data)
	out := QueryResult{Code: res.Code, Log: res.Log, Models: []ModelPair{}}
	if res.Code == errors.SuccessCode {
		models, err := res.Models()
		if err != nil {
			h.fail(w, http.StatusInternalServerError, err)
			return
		}
		for _, m := range models {
			out.Models = append(out.Models, ModelPair{Key: m.Key, Value: m.Value})
		}
	}
	h.write(w, http.StatusOK, out)
}

func (h *httpHandler) status(w http.ResponseWriter, r *http.Request) {
	h.write(w, http.StatusOK, Status{
		Name:    h.app.Name(),
		Version: relay.Version(),
		ChainID: h.app.GetChainID(),
	})
}

// fail renders transport errors in the same shape as request results.
func (h *httpHandler) fail(w http.ResponseWriter, status int, err error) {
	code, msg := errors.Info(err, false)
	h.write(w, status, TxResult{Code: code, Log: msg})
}

func (h *httpHandler) write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Cannot write response", "err", err)
	}
}
