package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	tmcli "github.com/tendermint/tendermint/libs/cli"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/gasoracle/app"
	"github.com/GPTx-global/gasoracle/config"
	"github.com/GPTx-global/gasoracle/x/gasprice/client/cli"
)

const (
	// EnvPrefix prefixes the environment variables overriding config.toml
	EnvPrefix = "GASORACLE"

	// annotationHost marks commands that run against the application
	annotationHost = "host"
)

// DefaultNodeHome is the default home directory
var DefaultNodeHome = defaultHome()

func defaultHome() string {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return "." + app.Name
	}
	return filepath.Join(userHomeDir, "."+app.Name)
}

// session owns what a command execution opened
type session struct {
	mtx    sync.Mutex
	home   string
	config *config.Config
	logger log.Logger
	host   *app.App
}

type sessionKey struct{}

func getSession(cmd *cobra.Command) *session {
	if s, ok := cmd.Context().Value(sessionKey{}).(*session); ok {
		return s
	}
	return &session{}
}

// openHost opens the application database under the home directory once
func (s *session) openHost() (*app.App, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.host != nil {
		return s.host, nil
	}

	db, err := app.OpenDB(filepath.Join(s.home, config.DataDir))
	if err != nil {
		return nil, err
	}

	host, err := app.New(db, app.WithLogger(s.logger), app.WithChainID(s.config.ChainID))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.host = host
	return host, nil
}

func (s *session) close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.host == nil {
		return nil
	}
	err := s.host.Close()
	s.host = nil
	return err
}

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	registry := codectypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(registry)

	initClientCtx := client.Context{}.
		WithCodec(codec.NewProtoCodec(registry)).
		WithInterfaceRegistry(registry).
		WithInput(os.Stdin)

	rootCmd := &cobra.Command{
		Use:   app.Name + "d",
		Short: "Owner gated gas price oracle",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initRootContext(cmd, initClientCtx)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String(flags.FlagKeyringBackend, "", "Select keyring's backend (os|file|test); defaults to the keyring.backend setting")

	rootCmd.AddCommand(
		NewInitCmd(),
		KeyCommands(DefaultNodeHome),
		txCommand(),
		queryCommand(),
		NewExportCmd(),
		NewStartCmd(),
	)

	tmcli.PrepareBaseCmd(rootCmd, EnvPrefix, DefaultNodeHome)
	return rootCmd
}

// Execute runs rootCmd and releases the application it opened
func Execute(rootCmd *cobra.Command) error {
	s := &session{}
	defer func() { _ = s.close() }()

	ctx := context.WithValue(context.Background(), client.ClientContextKey, &client.Context{})
	ctx = context.WithValue(ctx, sessionKey{}, s)

	return rootCmd.ExecuteContext(ctx)
}

// initRootContext loads config.toml, builds the client context and, for
// commands needing it, opens the application.
func initRootContext(cmd *cobra.Command, initClientCtx client.Context) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	home := viper.GetString(tmcli.HomeFlag)
	clientCtx := initClientCtx.
		WithHomeDir(home).
		WithKeyringDir(home).
		WithChainID(cfg.ChainID).
		WithOutput(cmd.OutOrStdout())

	if keyringDir, _ := cmd.Flags().GetString(flags.FlagKeyringDir); keyringDir != "" {
		clientCtx = clientCtx.WithKeyringDir(keyringDir)
	}

	// config.toml picks the keyring unless --keyring-backend is given
	if !cmd.Flags().Changed(flags.FlagKeyringBackend) {
		kr, err := client.NewKeyringFromBackend(clientCtx, cfg.Keyring.Backend)
		if err != nil {
			return err
		}
		clientCtx = clientCtx.WithKeyring(kr)
	}

	clientCtx, err = client.ReadPersistentCommandFlags(clientCtx, cmd.Flags())
	if err != nil {
		return err
	}

	if err := client.SetCmdClientContext(cmd, clientCtx); err != nil {
		return err
	}

	s := getSession(cmd)
	s.home = home
	s.config = cfg
	s.logger = logger

	if !needsHost(cmd) {
		return nil
	}

	host, err := s.openHost()
	if err != nil {
		return err
	}
	cli.SetCmdContext(cmd, cli.Context{Host: host, Keyring: clientCtx.Keyring})
	return nil
}

func needsHost(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationHost]; ok {
			return true
		}
	}
	return false
}

func hostAnnotation() map[string]string {
	return map[string]string{annotationHost: "true"}
}

func txCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Transactions subcommands",
		SuggestionsMinimumDistance: 2,
		Annotations:                hostAnnotation(),
	}

	cmd.AddCommand(cli.GetTxCmd())
	return cmd
}

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		SuggestionsMinimumDistance: 2,
		Annotations:                hostAnnotation(),
	}

	cmd.AddCommand(cli.GetQueryCmd())
	return cmd
}
