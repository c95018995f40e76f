package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/spf13/cobra"
)

const systemActor = "system"

func newReconcileCommand() *cobra.Command {
	var tenantID, actor string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute cached balances from entries and print the drift report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg, os.Stderr)

			a, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			drifts, err := a.services.Balance.ReconcileBalances(cmd.Context(), tenantID, actor)
			if err != nil {
				return fmt.Errorf("reconcile tenant %s: %w", tenantID, err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.ToBalanceDriftResponse(drifts))
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant id (required)")
	_ = cmd.MarkFlagRequired("tenant")
	cmd.Flags().StringVar(&actor, "actor", systemActor, "actor id recorded on repaired accounts")

	return cmd
}
