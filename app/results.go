package app

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

// ResultSet is the serialized form of many query keys or values.
type ResultSet struct {
	Results [][]byte
}

func (rs *ResultSet) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(rs)
}

func (rs *ResultSet) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, rs)
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []relay.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []relay.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]relay.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values", len(kref), len(vref))
	}
	mods := make([]relay.Model, len(kref))
	for i := range mods {
		mods[i] = relay.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// TxResponse is returned for every delivered request.
type TxResponse struct {
	Code    uint32 `json:"code"`
	Log     string `json:"log,omitempty"`
	Data    []byte `json:"data,omitempty"`
	GasUsed uint64 `json:"gas_used"`
}

// IsOK returns true if the request was processed.
func (r TxResponse) IsOK() bool {
	return r.Code == errors.SuccessCode
}

// DeliverTxError converts an error into a response. Internal errors are
// redacted unless debug is set.
func DeliverTxError(err error, debug bool) TxResponse {
	code, log := errors.Info(err, debug)
	return TxResponse{Code: code, Log: log}
}

// QueryResponse carries the RLP encoded key and value result sets of a
// query.
type QueryResponse struct {
	Code  uint32 `json:"code"`
	Log   string `json:"log,omitempty"`
	Key   []byte `json:"key,omitempty"`
	Value []byte `json:"value,omitempty"`
}

// Models returns the query result as models.
func (r QueryResponse) Models() ([]relay.Model, error) {
	if r.Code != errors.SuccessCode {
		return nil, errors.Wrapf(errors.ErrState, "query failed with code %d: %s", r.Code, r.Log)
	}
	var k, v ResultSet
	if err := k.Unmarshal(r.Key); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := v.Unmarshal(r.Value); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return JoinResults(&k, &v)
}

func queryError(err error, debug bool) QueryResponse {
	code, log := errors.Info(err, debug)
	return QueryResponse{Code: code, Log: log}
}
