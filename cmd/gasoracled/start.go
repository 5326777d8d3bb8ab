package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	"github.com/spf13/cobra"

	"github.com/GPTx-global/gasoracle/app"
	"github.com/GPTx-global/gasoracle/oracled/daemon"
	"github.com/GPTx-global/gasoracle/oracled/health"
	"github.com/GPTx-global/gasoracle/server"
	"github.com/GPTx-global/gasoracle/x/gasprice/client/cli"
	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

const shutdownTimeout = 10 * time.Second

// NewStartCmd runs the API server and the feeder against the registry until
// interrupted.
func NewStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "start",
		Short:       "Run the API server and the gas price feeder",
		Args:        cobra.NoArgs,
		Annotations: hostAnnotation(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runNode(ctx, cmd)
		},
	}
}

func runNode(ctx context.Context, cmd *cobra.Command) error {
	s := getSession(cmd)
	cfg := s.config
	logger := s.logger

	host, err := s.openHost()
	if err != nil {
		return err
	}

	if !host.Instantiated() {
		logger.Info("registry is not instantiated yet; run init first to accept gas prices")
	}

	daemonConfig, err := cfg.Feeder.DaemonConfig()
	if err != nil {
		return err
	}

	var checker *health.HealthChecker
	if cfg.Feeder.Enable {
		clientCtx, err := cli.GetCmdContext(cmd)
		if err != nil {
			return err
		}
		sender, err := clientCtx.FromAddress(cfg.Feeder.From)
		if err != nil {
			return fmt.Errorf("feeder.from: %w", err)
		}

		feeder := daemon.New(logger, daemonConfig, host, sender)
		checker = feeder.Health()
		checker.AddCheck(storeCheck(host))

		if err := feeder.Start(ctx); err != nil {
			return err
		}
		defer feeder.Stop()
		logger.Info("started gas price feeder", "sender", sender.String(), "jobs", len(daemonConfig.Jobs))
	} else {
		checker = health.NewHealthChecker(logger, daemonConfig.HealthInterval)
		checker.AddCheck(storeCheck(host))
		go checker.Start(ctx)
	}

	if !cfg.Server.Enable {
		<-ctx.Done()
		logger.Info("shutting down")
		return nil
	}

	metrics, err := telemetry.New(telemetry.Config{
		ServiceName:             app.Name,
		Enabled:                 cfg.Server.EnableTelemetry,
		EnableHostnameLabel:     false,
		PrometheusRetentionTime: cfg.Server.PrometheusRetentionTime,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	srv := server.New(logger, server.Config{
		Address:            cfg.Server.Address,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	}, host, metrics, checker)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// storeCheck fails once the application can no longer answer queries
func storeCheck(host *app.App) health.HealthCheck {
	return health.NewFuncCheck("store", func(context.Context) error {
		_, err := host.Query(&types.QueryContractVersionRequest{})
		if err != nil && !errorsmod.IsOf(err, types.ErrNotFound) {
			return err
		}
		return nil
	})
}
