/*
Package relayd links together all the various components
to construct the relay daemon application.
*/
package relayd

import (
	"context"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/app"
	"github.com/iov-one/relay/store"
	"github.com/iov-one/relay/x/cash"
	"github.com/iov-one/relay/x/ledger"
	"github.com/iov-one/relay/x/multisig"
	"github.com/iov-one/relay/x/sigs"
	"github.com/iov-one/relay/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is used in logs and by the version command.
const Name = "relayd"

// Chain returns a chain of decorators, to handle recovery, logging,
// relayer authentication and gas fees
func Chain(ctrl cash.Controller) app.Decorators {
	return app.ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		sigs.NewDecorator(),
		cash.NewFeeDecorator(ctrl),
		// a failing handler leaves no writes behind, the fee
		// decorator charges nothing then either
		utils.NewSavepoint(),
	)
}

// Ledger returns the account ledger with the Registry program deployed at
// ledger.RegistryAddress.
func Ledger(ctrl cash.Controller) *ledger.Controller {
	l := ledger.NewController(ctrl)
	l.Register(ledger.RegistryAddress, ledger.NewRegistry())
	return l
}

// Router returns a router dispatching to all extensions of the daemon.
func Router(ctrl cash.Controller, l multisig.Ledger) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, ctrl)
	sigs.RegisterRoutes(r)
	multisig.RegisterRoutes(r, l)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/balances", "/sigs/nonce" and "/wallets"
func QueryRouter() relay.QueryRouter {
	r := relay.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		multisig.RegisterQuery,
	)
	return r
}

// Initializer loads the genesis state of all extensions.
func Initializer() relay.Initializer {
	return relay.MultiInitializer{
		cash.Initializer{},
		multisig.Initializer{},
	}
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() relay.Handler {
	ctrl := cash.NewController()
	return Chain(ctrl).WithHandler(Router(ctrl, Ledger(ctrl)))
}

// Application constructs an in-memory application with the given
// arguments. If you are not sure what to use for the Handler, just use
// Stack().
func Application(name string, h relay.Handler, tx relay.TxDecoder, logger log.Logger, debug bool) (app.BaseApp, error) {
	s, err := app.NewStoreApp(name, store.MemStore(), QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	s = s.WithInit(Initializer()).WithDebug(debug).WithLogger(logger)
	return app.NewBaseApp(s, tx, h), nil
}

// GenerateApp builds the daemon application. The state is loaded from the
// genesis file by the caller.
func GenerateApp(logger log.Logger, debug bool) (app.BaseApp, error) {
	return Application(Name, Stack(), TxDecoder, logger, debug)
}
