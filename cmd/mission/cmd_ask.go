package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		raw     bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ask [query...]",
		Short: "Send one message and print the reply",
		Long: `Sends a single message through the same dispatch path as the chat screen
and prints the assistant reply, rendered from markdown.

Example:
  mission ask List current missions`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			// Handle graceful shutdown
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.ask(ctx, cmd, strings.Join(args, " "), raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the reply without markdown rendering")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Give up waiting for the reply after this long")
	return cmd
}

func (a *app) ask(ctx context.Context, cmd *cobra.Command, query string, raw bool) error {
	s := newSession(a.cfg)
	a.logger.Debug("sending query", zap.String("session", s.id), zap.String("url", s.client.ChatURL()))

	if !s.ctrl.SendUserMessage(ctx, query) {
		return fmt.Errorf("query is empty")
	}
	reply, _ := s.store.Last()

	out := reply.Text
	if !raw {
		out = renderMarkdown(reply.Text, a.cfg.UI.WordWrap)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
	return nil
}

// renderMarkdown renders text for a terminal, falling back to the raw text.
func renderMarkdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
