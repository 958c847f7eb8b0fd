package relay

import (
	"encoding/json"

	"github.com/iov-one/relay/errors"
)

// Handler is a core engine that can process a few specific messages.
// This could represent "wallet execute" or "balance transfer".
type Handler interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or fee-handling, to many Handlers
type Decorator interface {
	Deliver(ctx Context, store KVStore, tx Tx, next Handler) (*DeliverResult, error)
}

// DeliverResult captures any non-error information returned to the
// submitter of a request.
type DeliverResult struct {
	// Data is a machine readable result, usually an RLP encoded model.
	Data []byte
	// Log is a human readable description of the result.
	Log string
	// GasUsed is the total gas metered while processing the request.
	GasUsed uint64
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// Options are the genesis options.
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %q: %s", key, err)
	}
	return nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// MultiInitializer aggregates a list of Initializer objects and applies
// them in order.
type MultiInitializer []Initializer

// FromGenesis will pass opts to all Initializers in the list, aborting
// early with the first error.
func (m MultiInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, h := range m {
		if err := h.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
