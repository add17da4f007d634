package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newHealthCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the chat backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			s := newSession(a.cfg)
			status := s.client.HealthCheck(ctx)
			s.audit.HealthProbe(status.Status, status.Healthy())
			a.logger.Debug("health probe", zap.String("url", s.client.HealthURL()), zap.String("status", status.Status))

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(status); err != nil {
					return fmt.Errorf("failed to encode status: %w", err)
				}
			} else {
				fmt.Fprintf(out, "%s: %s\n", s.client.BaseURL(), status.Status)
				if status.Message != "" {
					fmt.Fprintf(out, "  %s\n", status.Message)
				}
			}

			if !status.Healthy() {
				return fmt.Errorf("backend unhealthy: %s", status.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the status as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Probe timeout")
	return cmd
}
