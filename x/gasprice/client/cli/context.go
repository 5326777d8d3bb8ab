package cli

import (
	"context"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	tmcli "github.com/tendermint/tendermint/libs/cli"
	"sigs.k8s.io/yaml"

	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// Output formats accepted by --output
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Host is the application the commands run against.
type Host interface {
	Deliver(msg types.Msg) (*sdk.Result, error)
	Query(req types.QueryMsg) ([]byte, error)
	LastBlockHeight() int64
}

// Context carries the host and keyring a command was started with.
type Context struct {
	Host    Host
	Keyring keyring.Keyring
}

type contextKey struct{}

// SetCmdContext stores clientCtx on cmd.
func SetCmdContext(cmd *cobra.Command, clientCtx Context) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, contextKey{}, clientCtx))
}

// GetCmdContext returns the Context stored on cmd.
func GetCmdContext(cmd *cobra.Command) (Context, error) {
	if ctx := cmd.Context(); ctx != nil {
		if clientCtx, ok := ctx.Value(contextKey{}).(Context); ok && clientCtx.Host != nil {
			return clientCtx, nil
		}
	}
	return Context{}, fmt.Errorf("%s: no application available", cmd.CommandPath())
}

// FromAddress resolves --from, which is either a bech32 address or the name of
// a key in the keyring. Either way the key must be held in the keyring.
func (c Context) FromAddress(from string) (sdk.AccAddress, error) {
	if from == "" {
		return nil, fmt.Errorf("--%s is required", flags.FlagFrom)
	}
	if c.Keyring == nil {
		return nil, fmt.Errorf("no keyring is configured to resolve %q", from)
	}

	if addr, err := sdk.AccAddressFromBech32(from); err == nil {
		if _, err := c.Keyring.KeyByAddress(addr); err != nil {
			return nil, fmt.Errorf("address %s is not in the keyring: %w", from, err)
		}
		return addr, nil
	}

	record, err := c.Keyring.Key(from)
	if err != nil {
		return nil, fmt.Errorf("failed to find key %q: %w", from, err)
	}
	return record.GetAddress()
}

// AddOutputFlag registers --output on cmd.
func AddOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(tmcli.OutputFlag, "o", OutputJSON, "Output format (json|yaml)")
}

// PrintOutput writes the JSON document bz in the format selected by --output.
func PrintOutput(cmd *cobra.Command, bz []byte) error {
	format, _ := cmd.Flags().GetString(tmcli.OutputFlag)

	switch format {
	case "", OutputJSON:
	case OutputYAML:
		out, err := yaml.JSONToYAML(bz)
		if err != nil {
			return err
		}
		bz = out
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}

	out := cmd.OutOrStdout()
	if _, err := out.Write(bz); err != nil {
		return err
	}
	if len(bz) == 0 || bz[len(bz)-1] != '\n' {
		_, err := fmt.Fprintln(out)
		return err
	}
	return nil
}
