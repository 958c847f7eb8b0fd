package multisig

import (
	"context"
	"math/big"
	"testing"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gconf"
	"github.com/iov-one/relay/store"
	"github.com/iov-one/relay/weavetest"
	"github.com/iov-one/relay/weavetest/assert"
	"github.com/iov-one/relay/x/cash"
	"github.com/iov-one/relay/x/ledger"
)

const (
	testChainID       = 1337
	testSettlementGas = 30000
	// Gas limit of every request envelope.
	envelopeGas = 1000000
)

// env runs requests through the gas fee decorator and a router with all
// multisig handlers, the way the application does.
type env struct {
	db        relay.CacheableKVStore
	cash      cash.BaseController
	ledger    *ledger.Controller
	registry  *ledger.Registry
	router    router
	collector relay.Address
}

func newEnv(t testing.TB) *env {
	t.Helper()
	db := store.MemStore()
	ctrl := cash.NewController()
	l := ledger.NewController(ctrl)
	reg := ledger.NewRegistry()
	l.Register(ledger.RegistryAddress, reg)

	collector := weavetest.RandomAddr(t)
	assert.Nil(t, gconf.Save(db, "cash", &cash.Configuration{
		Collector:   collector,
		MinGasPrice: big.NewInt(1),
	}))
	assert.Nil(t, gconf.Save(db, confPkg, &Configuration{SettlementGas: testSettlementGas}))

	r := router{}
	RegisterRoutes(r, l)
	return &env{
		db:        db,
		cash:      ctrl,
		ledger:    l,
		registry:  reg,
		router:    r,
		collector: collector,
	}
}

func (e *env) fund(t testing.TB, addr relay.Address, amount int64) {
	t.Helper()
	assert.Nil(t, e.cash.IssueCoins(e.db, addr, big.NewInt(amount)))
}

func (e *env) balance(t testing.TB, addr relay.Address) *big.Int {
	t.Helper()
	b, err := e.cash.Balance(e.db, addr)
	assert.Nil(t, err)
	return b
}

func (e *env) assertBalance(t testing.TB, addr relay.Address, want int64) {
	t.Helper()
	if got := e.balance(t, addr); got.Cmp(big.NewInt(want)) != 0 {
		t.Fatalf("balance of %s: want %d, got %s", addr.Hex(), want, got)
	}
}

func assertBig(t testing.TB, want, got *big.Int) {
	t.Helper()
	if want.Cmp(got) != 0 {
		t.Fatalf("want %s, got %s", want, got)
	}
}

// deliver processes msg submitted by caller paying price per gas.
func (e *env) deliver(caller relay.Address, price int64, msg relay.Msg) (*relay.DeliverResult, error) {
	ctx := relay.WithChainID(context.Background(), testChainID)
	ctx = relay.WithCaller(ctx, caller)
	ctx = relay.WithGasPrice(ctx, big.NewInt(price))
	tx := &testTx{msg: msg, limit: envelopeGas}
	return cash.NewFeeDecorator(e.cash).Deliver(ctx, e.db, tx, e.router)
}

// createWallet creates an active wallet owned by keys.
func (e *env) createWallet(t testing.TB, v Variant, keys []*crypto.PrivateKey, threshold uint8) relay.Address {
	t.Helper()
	creator := weavetest.RandomAddr(t)
	e.fund(t, creator, 1000000000)
	res, err := e.deliver(creator, 1, &CreateWalletMsg{
		Variant:   v,
		Owners:    weavetest.Addresses(keys),
		Threshold: threshold,
	})
	assert.Nil(t, err)
	return relay.BytesToAddress(res.Data)
}

// execute signs p with keys, in the order given, and submits it.
func (e *env) execute(relayer relay.Address, price int64, wallet relay.Address, keys []*crypto.PrivateKey, p *Payload) (*Result, error) {
	raw, err := p.Encode()
	if err != nil {
		return nil, err
	}
	sigs, err := signPayload(keys, p)
	if err != nil {
		return nil, err
	}
	res, err := e.deliver(relayer, price, &ExecuteMsg{Wallet: wallet, Sigs: sigs, Payload: raw})
	if err != nil {
		return nil, err
	}
	var out Result
	if err := out.Unmarshal(res.Data); err != nil {
		return nil, err
	}
	return &out, nil
}

// nonce returns the nonce the next payload of relayer must carry.
func (e *env) nonce(t testing.TB, wallet, relayer relay.Address) *big.Int {
	t.Helper()
	w, err := NewWalletBucket().GetWallet(e.db, wallet)
	assert.Nil(t, err)
	n, err := NewNonces().Current(e.db, wallet, w, relayer)
	assert.Nil(t, err)
	return n
}

func signPayload(keys []*crypto.PrivateKey, p *Payload) ([]crypto.Signature, error) {
	hash, err := p.Hash()
	if err != nil {
		return nil, err
	}
	sigs := make([]crypto.Signature, len(keys))
	for i, k := range keys {
		if sigs[i], err = k.Sign(hash); err != nil {
			return nil, err
		}
	}
	return sigs, nil
}

func payload(nonce *big.Int, to relay.Address, value int64, gasLimit uint64, gasPrice int64, data []byte) *Payload {
	return NewPayload(testChainID, nonce, to, big.NewInt(value), gasLimit, big.NewInt(gasPrice), data)
}

type router map[string]relay.Handler

func (r router) Handle(path string, h relay.Handler) {
	r[path] = h
}

func (r router) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	h, ok := r[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "path %q", msg.Path())
	}
	return h.Deliver(ctx, db, tx)
}

type testTx struct {
	msg   relay.Msg
	limit uint64
}

func (tx *testTx) GetMsg() (relay.Msg, error) {
	return tx.msg, nil
}

func (tx *testTx) GetGasLimit() uint64 {
	return tx.limit
}

// deployWallet deploys a managed wallet and activates it for keys.
func (e *env) deployWallet(t testing.TB, v Variant, keys []*crypto.PrivateKey, threshold uint8) relay.Address {
	t.Helper()
	manager := weavetest.RandomAddr(t)
	e.fund(t, manager, 1000000000)
	res, err := e.deliver(manager, 1, &DeployWalletMsg{Variant: v})
	assert.Nil(t, err)
	addr := relay.BytesToAddress(res.Data)
	_, err = e.deliver(manager, 1, &ActivateMsg{
		Wallet:    addr,
		Owners:    weavetest.Addresses(keys),
		Threshold: threshold,
	})
	assert.Nil(t, err)
	return addr
}

// newRelayer returns a relayer able to pay for any request.
func (e *env) newRelayer(t testing.TB) relay.Address {
	t.Helper()
	r := weavetest.RandomAddr(t)
	e.fund(t, r, 1000000000000)
	return r
}
