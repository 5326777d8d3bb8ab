package main

import (
	"github.com/spf13/cobra"

	"github.com/GPTx-global/gasoracle/x/gasprice/client/cli"
	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// NewExportCmd prints the registry as genesis JSON
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "export",
		Short:       "Export the registry as genesis JSON",
		Args:        cobra.NoArgs,
		Annotations: hostAnnotation(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, err := getSession(cmd).openHost()
			if err != nil {
				return err
			}

			bz, err := types.ModuleCdc.MarshalJSON(host.ExportGenesis())
			if err != nil {
				return err
			}
			return cli.PrintOutput(cmd, bz)
		},
	}

	cli.AddOutputFlag(cmd)
	return cmd
}
