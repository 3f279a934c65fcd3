package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/drblury/csvweaver/jsonutil"
	"github.com/drblury/csvweaver/probe"
)

const maxReadinessBody = 64 << 10

func newHealthcheckCommand() *cobra.Command {
	var (
		target  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Exit non-zero unless a running service reports ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			check := probe.NewHTTPProbe("readiness", http.MethodGet, target, nil,
				probe.WithHTTPClient(&http.Client{Timeout: timeout}),
				probe.WithHTTPAllowedStatuses(http.StatusOK),
				probe.WithHTTPProblemDetail(),
				probe.WithHTTPResponseValidator(expectReady),
				probe.WithHTTPDrainResponseBody(false),
			)
			if err := check(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ready")
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "url", "http://127.0.0.1:8080/info/readyz", "readiness endpoint to query")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "maximum time to wait for the answer")

	return cmd
}

// expectReady rejects a 200 answer whose payload does not report "ready",
// such as a proxy page or a liveness endpoint passed by mistake.
func expectReady(resp *http.Response) error {
	var payload struct {
		Status string `json:"status"`
	}
	if err := jsonutil.Decode(io.LimitReader(resp.Body, maxReadinessBody), &payload); err != nil {
		return fmt.Errorf("unreadable readiness payload: %w", err)
	}
	if payload.Status != "ready" {
		return fmt.Errorf("service reported status %q", payload.Status)
	}
	return nil
}
