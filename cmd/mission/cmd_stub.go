package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"missionchat/internal/stub"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStubCmd(a *app) *cobra.Command {
	var (
		addr       string
		scriptPath string
		opts       stub.Options
	)

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve a local stand-in for the chat backend",
		Long: `Serves POST /chat, GET /health, GET /system-info and GET / with canned
replies, so the client can be exercised without the real backend.

Examples:
  mission stub --addr :5000
  mission stub --script replies.yaml
  mission stub --fail-status 500   # every /chat fails
  mission stub --empty             # /chat answers {}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptPath != "" {
				script, err := stub.LoadScript(scriptPath)
				if err != nil {
					return err
				}
				opts.Script = script
			}
			if opts.FailStatus != 0 && (opts.FailStatus < 400 || opts.FailStatus > 599) {
				return fmt.Errorf("--fail-status must be a 4xx or 5xx code, got %d", opts.FailStatus)
			}

			srv := stub.New(opts)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(addr) }()
			a.logger.Info("stub listening", zap.String("addr", addr))
			fmt.Fprintf(cmd.OutOrStdout(), "Mission Control stub listening on %s\n", addr)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				a.logger.Info("received shutdown signal")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			a.logger.Info("stub stopped", zap.Int64("served", srv.Served()))
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":5000", "Listen address")
	cmd.Flags().StringVar(&scriptPath, "script", "", "YAML file with scripted replies")
	cmd.Flags().IntVar(&opts.FailStatus, "fail-status", 0, "Answer every /chat with this HTTP status")
	cmd.Flags().BoolVar(&opts.Empty, "empty", false, "Answer /chat with an empty JSON object")
	cmd.Flags().StringVar(&opts.AllowOrigins, "origins", "*", "CORS allowed origins")
	cmd.Flags().DurationVar(&opts.Latency, "latency", 0, "Delay every /chat reply")
	return cmd
}
