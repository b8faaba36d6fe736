package cmd

import (
	"encoding/json"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "inspect and maintain the liquidation registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app := provideApplication(ctx)
		defer app.Close()

		accounts, err := app.ledger.Registry(ctx)
		if err != nil {
			return err
		}

		for _, account := range accounts {
			cmd.Println(account)
		}

		return nil
	},
}

var registryUpdateCmd = &cobra.Command{
	Use:   "update <account>...",
	Short: "index or drop accounts by their fresh health",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app := provideApplication(ctx)
		defer app.Close()

		for _, account := range args {
			member, err := app.ledger.UpdateLiquidationStatus(ctx, account)
			if err != nil {
				return err
			}

			cmd.Println(account, member)
		}

		return nil
	},
}

var registrySweepCmd = &cobra.Command{
	Use:   "sweep [max]",
	Short: "drop recovered accounts from the registry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app := provideApplication(ctx)
		defer app.Close()

		max := cfg.Workers.SweepBatch
		if len(args) > 0 {
			max = cast.ToInt(args[0])
		}

		caller, _ := cmd.Flags().GetString("caller")
		removed, err := app.ledger.SweepRegistry(ctx, caller, max)
		if err != nil {
			return err
		}

		cmd.Println("removed", removed)
		return nil
	},
}

var positionCmd = &cobra.Command{
	Use:   "position <account>",
	Short: "print an account's position and risk values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app := provideApplication(ctx)
		defer app.Close()

		view, err := app.ledger.GetPosition(ctx, args[0])
		if err != nil {
			return err
		}

		data, _ := json.MarshalIndent(view, "", "  ")
		cmd.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registryCmd, positionCmd)
	registryCmd.AddCommand(registryUpdateCmd, registrySweepCmd)
	registrySweepCmd.Flags().String("caller", "", "admin account")
}
