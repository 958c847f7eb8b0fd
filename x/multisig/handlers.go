package multisig

import (
	"fmt"
	"math/big"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/gas"
	"github.com/iov-one/relay/gconf"
	"github.com/iov-one/relay/orm"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r relay.Registry, l Ledger) {
	wallets := NewWalletBucket()
	r.Handle(pathCreateWalletMsg, CreateWalletHandler{wallets: wallets})
	r.Handle(pathDeployWalletMsg, DeployWalletHandler{wallets: wallets})
	r.Handle(pathActivateMsg, ActivateHandler{wallets: wallets, ledger: l})
	r.Handle(pathExecuteMsg, ExecuteHandler{dispatcher: NewDispatcher(l)})
	var conf Configuration
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(confPkg, &conf))
}

// CreateWalletHandler creates active wallets.
type CreateWalletHandler struct {
	wallets WalletBucket
}

var _ relay.Handler = CreateWalletHandler{}

func (h CreateWalletHandler) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	var msg CreateWalletMsg
	if err := relay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := ValidateOwners(msg.Owners, msg.Threshold, conf.maxOwners()); err != nil {
		return nil, err
	}
	w := &Wallet{
		Variant:   msg.Variant,
		Owners:    msg.Owners,
		Threshold: msg.Threshold,
		State:     Active,
		Nonce:     msg.Variant.Policy().NonceStart,
	}
	return createWallet(ctx, db, h.wallets, w)
}

// DeployWalletHandler creates inactive managed wallets.
type DeployWalletHandler struct {
	wallets WalletBucket
}

var _ relay.Handler = DeployWalletHandler{}

func (h DeployWalletHandler) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	var msg DeployWalletMsg
	if err := relay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	manager, ok := relay.GetCaller(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "manager unknown")
	}
	w := &Wallet{
		Variant: msg.Variant,
		Manager: manager,
		State:   Inactive,
		Nonce:   msg.Variant.Policy().NonceStart,
	}
	return createWallet(ctx, db, h.wallets, w)
}

// createWallet stores w under an address derived from the creator and the
// number of wallets it created before.
func createWallet(ctx relay.Context, db relay.KVStore, wallets WalletBucket, w *Wallet) (*relay.DeliverResult, error) {
	creator, ok := relay.GetCaller(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "creator unknown")
	}
	if err := gas.GetMeter(ctx).Consume(gas.STORE, "create wallet"); err != nil {
		return nil, err
	}
	seq := orm.NewSequence(BucketName, creator.Hex())
	n, err := seq.NextInt(db)
	if err != nil {
		return nil, errors.Wrap(err, "creator sequence")
	}
	addr := crypto.CreateAddress(creator, n-1)
	if err := wallets.Has(db, addr.Bytes()); err == nil {
		return nil, errors.Wrapf(errors.ErrDuplicate, "wallet %s", addr.Hex())
	} else if !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	if err := wallets.Save(db, addr, w); err != nil {
		return nil, errors.Wrap(err, "save wallet")
	}
	relay.GetLogger(ctx).Info("wallet created",
		"module", "multisig", "wallet", addr.Hex(), "variant", w.Variant.String(), "state", w.State.String())
	return &relay.DeliverResult{
		Data: addr.Bytes(),
		Log:  fmt.Sprintf("%s wallet %s created", w.Variant, addr.Hex()),
	}, nil
}

// ActivateHandler activates managed wallets.
type ActivateHandler struct {
	wallets WalletBucket
	ledger  Ledger
}

var _ relay.Handler = ActivateHandler{}

func (h ActivateHandler) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	var msg ActivateMsg
	if err := relay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, ok := relay.GetCaller(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "caller unknown")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	meter := gas.GetMeter(ctx)
	if err := meter.Consume(gas.LOAD+gas.SizeGas(gas.UPDATE, len(msg.Owners)*relay.AddressLength), "activate"); err != nil {
		return nil, err
	}

	w, err := h.wallets.GetWallet(db, msg.Wallet)
	if err != nil {
		return nil, err
	}
	if err := Activate(w, caller, msg.Owners, msg.Threshold, conf.maxOwners()); err != nil {
		return nil, err
	}

	fee := msg.Fee
	if fee == nil {
		fee = new(big.Int)
	}
	if fee.Sign() > 0 {
		ceiling, err := relay.GasCost(meter.Consumed()+conf.SettlementGas, relay.GetGasPrice(ctx))
		if err != nil {
			return nil, errors.Wrap(err, "fee ceiling")
		}
		if fee.Cmp(ceiling) > 0 {
			return nil, errors.Wrapf(errors.ErrFeeCeiling, "activation fee %s exceeds cost %s", fee, ceiling)
		}
		if err := meter.Consume(conf.SettlementGas, "settlement"); err != nil {
			return nil, err
		}
		if err := h.ledger.Transfer(db, msg.Wallet, caller, fee); err != nil {
			return nil, errors.Wrap(err, "pay activation fee")
		}
	}

	if err := h.wallets.Save(db, msg.Wallet, w); err != nil {
		return nil, errors.Wrap(err, "save wallet")
	}
	relay.GetLogger(ctx).Info("wallet activated",
		"module", "multisig", "wallet", msg.Wallet.Hex(), "owners", len(w.Owners), "threshold", w.Threshold, "fee", fee.String())
	return &relay.DeliverResult{Log: "wallet activated"}, nil
}

// ExecuteHandler runs signed payloads. The RLP encoded Result is returned
// as the response data.
type ExecuteHandler struct {
	dispatcher Dispatcher
}

var _ relay.Handler = ExecuteHandler{}

func (h ExecuteHandler) Deliver(ctx relay.Context, db relay.KVStore, tx relay.Tx) (*relay.DeliverResult, error) {
	var msg ExecuteMsg
	if err := relay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	res, err := h.dispatcher.Execute(ctx, db, msg.Wallet, msg.Sigs, msg.Payload)
	if err != nil {
		return nil, err
	}
	raw, err := res.Marshal()
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return &relay.DeliverResult{
		Data: raw,
		Log:  fmt.Sprintf("outcome=%t fee=%s", res.Outcome, res.Fee),
	}, nil
}
