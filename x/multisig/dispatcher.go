package multisig

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gas"
	"github.com/iov-one/relay/metrics"
)

// Ledger is the account ledger wallets execute against.
type Ledger interface {
	BalanceOf(db relay.ReadOnlyKVStore, addr relay.Address) (*big.Int, error)
	Transfer(db relay.KVStore, from, to relay.Address, amount *big.Int) error
	// Call runs a value transfer and call with at most gasLimit gas. A
	// failed call reverts its own state and is reported by success, not
	// by an error.
	Call(ctx relay.Context, db relay.KVStore, from, to relay.Address, amount *big.Int, data []byte, gasLimit uint64) (success bool, ret []byte, gasUsed uint64, err error)
}

// Result of an execution that passed verification.
type Result struct {
	// Outcome is false if the destination call failed under a soft
	// failure policy.
	Outcome bool
	// Fee is what the wallet paid to the relayer.
	Fee *big.Int
	// ReturnData is what the destination call returned.
	ReturnData []byte
	// GasUsed by the destination call.
	GasUsed uint64
}

func (r *Result) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

func (r *Result) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, r)
}

// Dispatcher executes signed payloads of wallets.
type Dispatcher struct {
	ledger    Ledger
	wallets   WalletBucket
	nonces    Nonces
	whitelist Whitelist
}

// NewDispatcher returns a dispatcher running calls against l.
func NewDispatcher(l Ledger) Dispatcher {
	return Dispatcher{
		ledger:    l,
		wallets:   NewWalletBucket(),
		nonces:    NewNonces(),
		whitelist: NewWhitelist(),
	}
}

// Execute verifies and runs the payload signed by the wallet owners. The
// relayer is the caller of ctx and the gas price of ctx is the relayer gas
// price.
//
// Steps short-circuit in order: activation, nonce, signatures, whitelist,
// fee ceiling, call, fee settlement. Any error means nothing must be
// committed by the caller.
func (d Dispatcher) Execute(ctx relay.Context, db relay.KVStore, addr relay.Address, sigs []crypto.Signature, raw []byte) (*Result, error) {
	relayer, ok := relay.GetCaller(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "relayer unknown")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	meter := gas.GetMeter(ctx)
	if err := meter.Consume(gas.LOAD, "load wallet"); err != nil {
		return nil, err
	}
	w, err := d.wallets.GetWallet(db, addr)
	if err != nil {
		return nil, err
	}
	policy := w.Variant.Policy()

	if w.State != Active {
		return nil, errors.Wrap(errors.ErrLifecycle, "wallet not active")
	}

	payload, err := DecodePayload(raw)
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(relay.GetChainID(ctx)); err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}

	if err := meter.Consume(gas.UPDATE, "nonce"); err != nil {
		return nil, err
	}
	if err := d.nonces.Consume(db, addr, w, relayer, payload.Nonce); err != nil {
		return nil, err
	}

	if err := meter.Consume(gas.SizeGas(gas.HASH, len(raw))+uint64(len(sigs))*gas.ECRECOVER, "signatures"); err != nil {
		return nil, err
	}
	hash, err := payload.Hash()
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if err := VerifySignatures(w.Owners, w.Threshold, hash, sigs); err != nil {
		return nil, err
	}

	if policy.Whitelist {
		ok, err := d.whitelist.IsPermitted(db, addr, w, payload.To)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(errors.ErrPolicy, "destination %s not permitted", payload.To.Hex())
		}
	}

	callGas, err := d.callGas(ctx, meter, policy, conf, payload)
	if err != nil {
		return nil, err
	}

	// The nonce state must be persisted before the call. A soft failure
	// still consumes the nonce and a hard one discards everything anyway.
	if err := d.wallets.Save(db, addr, w); err != nil {
		return nil, errors.Wrap(err, "save wallet")
	}

	success, ret, used, err := d.call(ctx, db, addr, w, payload, callGas)
	if err != nil {
		return nil, err
	}
	if err := meter.Consume(used, "call"); err != nil {
		return nil, err
	}
	if !success && policy.CallFailure == CallFailureHard {
		return nil, errors.Wrapf(errors.ErrInnerCall, "call to %s", payload.To.Hex())
	}

	res := &Result{Outcome: success, Fee: new(big.Int), ReturnData: ret, GasUsed: used}
	if policy.RefundFees {
		fee, err := d.settle(ctx, db, meter, conf, addr, relayer)
		if err != nil {
			return nil, err
		}
		res.Fee = fee
	}

	relay.GetLogger(ctx).Info("wallet executed",
		"module", "multisig",
		"wallet", addr.Hex(),
		"variant", w.Variant.String(),
		"outcome", res.Outcome,
		"fee", res.Fee.String(),
		"gas", res.GasUsed)
	metrics.Executions.WithLabelValues(w.Variant.String(), outcomeLabel(res.Outcome)).Inc()
	metrics.ExecutionGas.WithLabelValues(w.Variant.String()).Observe(float64(res.GasUsed))
	if res.Fee.Sign() > 0 {
		f, _ := new(big.Float).SetInt(res.Fee).Float64()
		metrics.RefundedFees.WithLabelValues(w.Variant.String()).Add(f)
	}
	return res, nil
}

// callGas enforces the fee ceiling and returns the gas the destination
// call may use.
func (d Dispatcher) callGas(ctx relay.Context, meter *gas.Meter, policy Policy, conf *Configuration, p *Payload) (uint64, error) {
	price := relay.GetGasPrice(ctx)
	if policy.ExactGasPrice {
		if price.Cmp(p.GasPrice) != 0 {
			return 0, errors.Wrapf(errors.ErrFeeCeiling, "gas price %s, signed %s", price, p.GasPrice)
		}
	} else if price.Cmp(p.GasPrice) > 0 {
		return 0, errors.Wrapf(errors.ErrFeeCeiling, "gas price %s exceeds signed %s", price, p.GasPrice)
	}

	remaining := meter.Remaining()
	if !policy.RequireGasLimit {
		if p.GasLimit < remaining {
			return p.GasLimit, nil
		}
		return remaining, nil
	}
	need := p.GasLimit + conf.SettlementGas
	if need < p.GasLimit || remaining < need {
		return 0, errors.Wrapf(errors.ErrFeeCeiling, "gas budget %d cannot cover signed limit %d", remaining, p.GasLimit)
	}
	return p.GasLimit, nil
}

// call runs the destination call. Calls to the wallet itself are handled
// here, everything else is sent to the ledger.
func (d Dispatcher) call(ctx relay.Context, db relay.KVStore, addr relay.Address, w *Wallet, p *Payload, gasLimit uint64) (bool, []byte, uint64, error) {
	if p.To != addr || len(p.Data) == 0 {
		return d.ledger.Call(ctx, db, addr, p.To, p.Value, p.Data, gasLimit)
	}

	cstore, ok := db.(relay.CacheableKVStore)
	if !ok {
		return false, nil, 0, errors.Wrap(errors.ErrHuman, "need cachable kvstore")
	}
	meter := gas.NewMeter(gasLimit)
	cache := cstore.CacheWrap()
	if err := d.selfCall(cache, meter, addr, w, p.Data); err != nil {
		cache.Discard()
		relay.GetLogger(ctx).Debug("self-call failed", "module", "multisig", "err", err)
		return false, nil, meter.Consumed(), nil
	}
	if err := cache.Write(); err != nil {
		return false, nil, meter.Consumed(), errors.Wrap(err, "write self-call state")
	}
	return true, nil, meter.Consumed(), nil
}

func (d Dispatcher) selfCall(db relay.KVStore, meter *gas.Meter, addr relay.Address, w *Wallet, data []byte) error {
	if err := meter.Consume(gas.CALL, "self-call"); err != nil {
		return err
	}
	if !w.Variant.Policy().Whitelist {
		return errors.Wrapf(errors.ErrInput, "%s wallet has no self-calls", w.Variant)
	}
	dest, allowed, err := decodeSetWhitelisted(data)
	if err != nil {
		return err
	}
	if err := meter.Consume(gas.UPDATE, "whitelist"); err != nil {
		return err
	}
	return d.whitelist.SetPermitted(db, addr, dest, allowed)
}

// settle reimburses the relayer: metered gas plus the settlement overhead,
// times the relayer gas price. The settlement overhead is consumed after
// the fee was computed, so the fee matches what the relayer pays for the
// whole request as long as nothing else is metered afterwards.
func (d Dispatcher) settle(ctx relay.Context, db relay.KVStore, meter *gas.Meter, conf *Configuration, addr, relayer relay.Address) (*big.Int, error) {
	price := relay.GetGasPrice(ctx)
	fee, err := relay.GasCost(meter.Consumed()+conf.SettlementGas, price)
	if err != nil {
		return nil, errors.Wrap(err, "fee")
	}
	if err := meter.Consume(conf.SettlementGas, "settlement"); err != nil {
		return nil, err
	}
	if err := d.ledger.Transfer(db, addr, relayer, fee); err != nil {
		return nil, errors.Wrap(err, "refund relayer")
	}
	return fee, nil
}

func outcomeLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
