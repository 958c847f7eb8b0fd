package app

import (
	"encoding/json"
	"sync"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed to perform queries
// and initialize the state from genesis.
//
// It should be embedded in another struct that processes requests. All
// access to the store goes through mu, so requests are applied strictly
// one after another.
type StoreApp struct {
	mu     sync.Mutex
	logger log.Logger

	// name is used in logs and the version endpoint
	name string

	// Database state. Requests are processed in cache wraps that are
	// written back on success.
	store relay.CacheableKVStore

	// Code to initialize from a genesis file
	initializer relay.Initializer

	// How to handle queries
	queryRouter relay.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID uint64

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID, logger)
	baseContext relay.Context

	debug bool
}

// NewStoreApp initializes this app into a ready state with some defaults.
func NewStoreApp(name string, store relay.CacheableKVStore, queryRouter relay.QueryRouter, baseContext relay.Context) (*StoreApp, error) {
	s := &StoreApp{
		name:        name,
		store:       store,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(store)
	if err != nil {
		return nil, errors.Wrap(err, "load chain id")
	}
	if chainID != 0 {
		s.setChainID(chainID)
	}
	return s, nil
}

// Name returns the application name.
func (s *StoreApp) Name() string {
	return s.name
}

// GetChainID returns the current chainID, zero before InitChain.
func (s *StoreApp) GetChainID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chainID
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init relay.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug exposes internal error details in responses.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = relay.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

func (s *StoreApp) setChainID(chainID uint64) {
	s.chainID = chainID
	s.baseContext = relay.WithChainID(s.baseContext, chainID)
}

// InitChain stores the chain id and loads the application state of the
// genesis through the initializer. It can succeed only once per store.
func (s *StoreApp) InitChain(chainID uint64, appState []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chainID != 0 {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain %d", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app state not set in genesis")
	}
	var opts relay.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app state: %s", err)
	}

	cache := s.store.CacheWrap()
	if err := saveChainID(cache, chainID); err != nil {
		cache.Discard()
		return err
	}
	if s.initializer != nil {
		if err := s.initializer.FromGenesis(opts, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "initialize from genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis state")
	}
	s.setChainID(chainID)
	s.logger.Info("Chain initialized", "chain_id", chainID)
	return nil
}

// Query gets data from the app store.
//
// Key and Value in the response are always serialized ResultSet objects,
// able to support 0 to N values. They are of the same size.
func (s *StoreApp) Query(path string, data []byte) QueryResponse {
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", path), s.debug)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A cache wrap that is never written, so a misbehaving query cannot
	// modify the state.
	db := s.store.CacheWrap()
	defer db.Discard()
	models, err := qh.Query(db, data)
	if err != nil {
		return queryError(err, s.debug)
	}

	var res QueryResponse
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err, s.debug)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err, s.debug)
	}
	return res
}
