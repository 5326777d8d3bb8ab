package cli

import (
	"encoding/json"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// txResult is printed after a successful delivery.
type txResult struct {
	Height int64            `json:"height"`
	Events sdk.StringEvents `json:"events"`
}

// GetTxCmd returns the transaction commands for this module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("%s transactions subcommands", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		NewUpdateConfigCmd(),
		NewUpdateGasPriceCmd(),
		NewExecuteCmd(),
	)

	return cmd
}

// NewUpdateConfigCmd implements the owner transfer command
func NewUpdateConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-config [new-owner]",
		Short: "Hand the registry over to a new owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, sender, err := getTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgUpdateConfig(sender, args[0])
			return Deliver(cmd, clientCtx, msg)
		},
	}

	addTxFlags(cmd)
	return cmd
}

// NewUpdateGasPriceCmd implements the gas price update command
func NewUpdateGasPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update-gas-price [token] [value]",
		Short:   "Set the gas price of a token",
		Example: "update-gas-price ATOM 0.025 --from owner",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, sender, err := getTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgUpdateGasPrice(sender, args[0], args[1])
			return Deliver(cmd, clientCtx, msg)
		},
	}

	addTxFlags(cmd)
	return cmd
}

// NewExecuteCmd delivers a raw execute message. The sender is always taken from --from.
func NewExecuteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "execute [json]",
		Short:   "Deliver an execute message given in its JSON form",
		Example: `execute '{"update_gas_price":{"token":"ATOM","value":"1.25"}}' --from owner`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, sender, err := getTxContext(cmd)
			if err != nil {
				return err
			}

			msg, err := types.ParseExecuteMsg([]byte(args[0]))
			if err != nil {
				return err
			}

			switch msg := msg.(type) {
			case *types.MsgInstantiate:
				return fmt.Errorf("instantiate is only available through the init command")
			case *types.MsgUpdateConfig:
				msg.Sender = sender.String()
			case *types.MsgUpdateGasPrice:
				msg.Sender = sender.String()
			}

			return Deliver(cmd, clientCtx, msg)
		},
	}

	addTxFlags(cmd)
	return cmd
}

func addTxFlags(cmd *cobra.Command) {
	cmd.Flags().String(flags.FlagFrom, "", "Name or address of the sending key")
	AddOutputFlag(cmd)
}

func getTxContext(cmd *cobra.Command) (Context, sdk.AccAddress, error) {
	clientCtx, err := GetCmdContext(cmd)
	if err != nil {
		return Context{}, nil, err
	}

	from, _ := cmd.Flags().GetString(flags.FlagFrom)
	sender, err := clientCtx.FromAddress(from)
	if err != nil {
		return Context{}, nil, err
	}
	return clientCtx, sender, nil
}

// Deliver runs msg through the host and prints the committed block.
func Deliver(cmd *cobra.Command, clientCtx Context, msg types.Msg) error {
	res, err := clientCtx.Host.Deliver(msg)
	if err != nil {
		return err
	}

	bz, err := json.Marshal(txResult{
		Height: clientCtx.Host.LastBlockHeight(),
		Events: sdk.StringifyEvents(res.Events),
	})
	if err != nil {
		return err
	}
	return PrintOutput(cmd, bz)
}
