package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// GetQueryCmd returns the cli query commands for this module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("Querying commands for the %s module", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		GetCmdQueryConfig(),
		GetCmdQueryGasPrice(),
		GetCmdQueryContractVersion(),
		GetCmdQuerySmart(),
	)

	return cmd
}

// GetCmdQueryConfig implements the owner query command
func GetCmdQueryConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Query the current owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, &types.QueryConfigRequest{})
		},
	}

	AddOutputFlag(cmd)
	return cmd
}

// GetCmdQueryGasPrice implements the gas price query command
func GetCmdQueryGasPrice() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gas-price [token]",
		Short: "Query the gas price of a token and when it was last updated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, &types.QueryGasPriceRequest{Token: args[0]})
		},
	}

	AddOutputFlag(cmd)
	return cmd
}

// GetCmdQueryContractVersion implements the contract version query command
func GetCmdQueryContractVersion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract-version",
		Short: "Query the contract name and version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, &types.QueryContractVersionRequest{})
		},
	}

	AddOutputFlag(cmd)
	return cmd
}

// GetCmdQuerySmart implements the raw query command
func GetCmdQuerySmart() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "smart [json]",
		Short:   "Run a query given in its JSON form",
		Example: `smart '{"gas_price":{"token":"ATOM"}}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := types.ParseQueryMsg([]byte(args[0]))
			if err != nil {
				return err
			}
			return query(cmd, req)
		},
	}

	AddOutputFlag(cmd)
	return cmd
}

func query(cmd *cobra.Command, req types.QueryMsg) error {
	clientCtx, err := GetCmdContext(cmd)
	if err != nil {
		return err
	}

	bz, err := clientCtx.Host.Query(req)
	if err != nil {
		return err
	}
	return PrintOutput(cmd, bz)
}
