package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"

	"github.com/GPTx-global/gasoracle/app"
	"github.com/GPTx-global/gasoracle/config"
	"github.com/GPTx-global/gasoracle/x/gasprice/client/cli"
	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

const flagGenesis = "genesis"

// NewInitCmd writes the default config.toml and instantiates the registry,
// either with an owner or from an exported genesis file.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [owner]",
		Short: "Write the default config and instantiate the registry",
		Long: `Write config.toml to the home directory unless it exists, then set the
registry owner. The owner defaults to the --from address. With --genesis the
registry is restored from an exported genesis file instead.`,
		Example:     fmt.Sprintf("$ %sd init --from owner", app.Name),
		Args:        cobra.MaximumNArgs(1),
		Annotations: hostAnnotation(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := getSession(cmd)

			configPath := filepath.Join(s.home, config.FileName)
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				cfg := config.DefaultConfig()
				cfg.ChainID = s.config.ChainID
				cfg.Keyring = s.config.Keyring
				if err := config.WriteConfigFile(configPath, cfg); err != nil {
					return err
				}
				s.logger.Info("wrote config", "path", configPath)
			}

			clientCtx, err := cli.GetCmdContext(cmd)
			if err != nil {
				return err
			}

			genesisFile, _ := cmd.Flags().GetString(flagGenesis)
			if genesisFile != "" {
				return importGenesis(cmd, genesisFile)
			}

			from, _ := cmd.Flags().GetString(flags.FlagFrom)
			sender, err := clientCtx.FromAddress(from)
			if err != nil {
				return err
			}

			owner := sender.String()
			if len(args) == 1 {
				owner = args[0]
			}
			return cli.Deliver(cmd, clientCtx, types.NewMsgInstantiate(sender, owner))
		},
	}

	cmd.Flags().String(flags.FlagFrom, "", "Name or address of the instantiating key")
	cmd.Flags().String(flagGenesis, "", "Restore the registry from this genesis file")
	cli.AddOutputFlag(cmd)
	return cmd
}

func importGenesis(cmd *cobra.Command, path string) error {
	bz, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read genesis file: %w", err)
	}

	var genState types.GenesisState
	if err := types.ModuleCdc.UnmarshalJSON(bz, &genState); err != nil {
		return fmt.Errorf("failed to decode genesis file: %w", err)
	}

	s := getSession(cmd)
	host, err := s.openHost()
	if err != nil {
		return err
	}
	if err := host.InitChain(genState); err != nil {
		return err
	}

	s.logger.Info("restored registry", "owner", genState.Owner, "gas_prices", len(genState.GasPrices))

	bz, err = types.ModuleCdc.MarshalJSON(host.ExportGenesis())
	if err != nil {
		return err
	}
	return cli.PrintOutput(cmd, bz)
}
