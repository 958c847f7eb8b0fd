package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iov-one/relay/app"
	"github.com/iov-one/relay/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	FlagBind  = "bind"
	FlagDebug = "debug"

	shutdownTimeout = 5 * time.Second
)

// AppGenerator lets us lazily initialize app, using the logger
// potentially initialized with other flags
type AppGenerator func(logger log.Logger, debug bool) (Application, error)

// StartCmd loads the genesis file from the home directory into a fresh
// application and serves it over HTTP until interrupted.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the relay daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Start(ctx, gen, logger)
		},
	}
	cmd.Flags().String(FlagBind, "localhost:26680", "address the HTTP server listens on")
	cmd.Flags().Bool(FlagDebug, false, "return internal error details in responses")
	return cmd
}

// Start generates the application, initializes it from the genesis file
// and serves it until ctx is done.
func Start(ctx context.Context, gen AppGenerator, logger log.Logger) error {
	a, err := gen(logger, viper.GetBool(FlagDebug))
	if err != nil {
		return err
	}
	genFile := filepath.Join(viper.GetString(FlagHome), GenesisFile)
	if err := InitFromGenesis(a, genFile); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", viper.GetString(FlagBind))
	if err != nil {
		return errors.Wrapf(errors.ErrHuman, "cannot listen: %s", err)
	}
	logger.Info("Starting relay daemon", "bind", ln.Addr().String(), "chain_id", a.GetChainID())
	return Serve(ctx, ln, NewHandler(a, logger.With("module", "http")))
}

// InitFromGenesis loads the genesis file into the application.
func InitFromGenesis(a Application, genFile string) error {
	gen, err := app.LoadGenesis(genFile)
	if err != nil {
		return err
	}
	state, err := json.Marshal(gen.AppState)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return a.InitChain(gen.ChainID, state)
}

// Serve runs the HTTP server on ln until ctx is done, then shuts it down
// gracefully.
func Serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != http.ErrServerClosed {
		return err
	}
	return nil
}
