package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "inspect and administer the price oracle",
}

var oracleStateCmd = &cobra.Command{
	Use:   "state",
	Short: "print the oracle state and the current twap",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app := provideApplication(ctx)
		defer app.Close()

		view, err := app.oracle.State(ctx)
		if err != nil {
			return err
		}

		data, _ := json.MarshalIndent(view, "", "  ")
		cmd.Println(string(data))

		price, err := app.oracle.GetTwapPrice(ctx)
		if err != nil {
			cmd.Println("twap:", err)
			return nil
		}

		cmd.Println("twap:", price)
		return nil
	},
}

var oraclePriceCmd = &cobra.Command{
	Use:   "set-price <price>",
	Short: "commit a price as the new trust anchor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app := provideApplication(ctx)
		defer app.Close()

		price, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}

		caller, _ := cmd.Flags().GetString("caller")
		return app.oracle.UpdatePrice(ctx, caller, price)
	},
}

var oracleMinLiquidityCmd = &cobra.Command{
	Use:   "set-min-liquidity <amount>",
	Short: "set the pool liquidity below which prices are rejected",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app := provideApplication(ctx)
		defer app.Close()

		amount, err := uint256.FromDecimal(args[0])
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}

		caller, _ := cmd.Flags().GetString("caller")
		return app.oracle.SetMinLiquidity(ctx, caller, amount)
	},
}

var oraclePokeCmd = &cobra.Command{
	Use:   "poke",
	Short: "commit the current twap",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app := provideApplication(ctx)
		defer app.Close()

		price, err := app.oracle.Poke(ctx)
		if err != nil {
			return err
		}

		cmd.Println("committed", price)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(oracleCmd)
	oracleCmd.AddCommand(oracleStateCmd, oraclePriceCmd, oracleMinLiquidityCmd, oraclePokeCmd)

	for _, c := range []*cobra.Command{oraclePriceCmd, oracleMinLiquidityCmd} {
		c.Flags().String("caller", "", "admin account")
	}
}
