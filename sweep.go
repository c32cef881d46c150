package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/citynect/property-backend/services"
	"github.com/spf13/cobra"
)

var sweepJobs = []string{
	services.JobBackfillSqFt,
	services.JobExpireDemo,
	services.JobExpirePaid,
	services.JobResetContactLimits,
	services.JobResetWrongPass,
}

func newSweepCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:       "sweep <job>",
		Short:     "Run one maintenance sweep now",
		Long:      "Run one maintenance sweep immediately and exit. Jobs: " + strings.Join(sweepJobs, ", ") + ".",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: sweepJobs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			n, err := a.maintenance.Run(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records updated\n", args[0], n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "maximum run time")
	return cmd
}
