package cli_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	dbm "github.com/tendermint/tm-db"
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/gasoracle/app"
	"github.com/GPTx-global/gasoracle/x/gasprice/client/cli"
	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

type CLITestSuite struct {
	suite.Suite

	app     *app.App
	keyring keyring.Keyring
	owner   sdk.AccAddress
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) SetupTest() {
	var err error
	s.app, err = app.New(dbm.NewMemDB(), app.WithClock(func() time.Time { return time.Unix(1_700_000_000, 0) }))
	s.Require().NoError(err)

	registry := codectypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(registry)
	s.keyring = keyring.NewInMemory(codec.NewProtoCodec(registry))

	record, _, err := s.keyring.NewMnemonic("owner", keyring.English, sdk.FullFundraiserPath, keyring.DefaultBIP39Passphrase, hd.Secp256k1)
	s.Require().NoError(err)
	s.owner, err = record.GetAddress()
	s.Require().NoError(err)

	_, _, err = s.keyring.NewMnemonic("stranger", keyring.English, sdk.FullFundraiserPath, keyring.DefaultBIP39Passphrase, hd.Secp256k1)
	s.Require().NoError(err)

	_, err = s.app.Deliver(types.NewMsgInstantiate(s.owner, s.owner.String()))
	s.Require().NoError(err)
}

func (s *CLITestSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

// run executes cmd with args against the suite's application
func (s *CLITestSuite) run(cmd *cobra.Command, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	cmd.SetContext(context.Background())
	cli.SetCmdContext(cmd, cli.Context{Host: s.app, Keyring: s.keyring})

	err := cmd.ExecuteContext(cmd.Context())
	return out.String(), err
}

func (s *CLITestSuite) TestUpdateGasPriceByKeyName() {
	out, err := s.run(cli.NewUpdateGasPriceCmd(), "ATOM", "1.25", "--from", "owner")
	s.Require().NoError(err)
	s.Equal(int64(2), gjson.Get(out, "height").Int())
	s.Equal(types.EventTypeUpdateGasPrice, gjson.Get(out, "events.0.type").String())

	out, err = s.run(cli.GetCmdQueryGasPrice(), "ATOM")
	s.Require().NoError(err)
	s.Equal("1.250000000000000000", gjson.Get(out, "gas_price").String())
}

func (s *CLITestSuite) TestUpdateGasPriceByAddress() {
	_, err := s.run(cli.NewUpdateGasPriceCmd(), "OSMO", "0.0025", "--from", s.owner.String())
	s.Require().NoError(err)
}

func (s *CLITestSuite) TestTxErrors() {
	testCases := []struct {
		name   string
		cmd    *cobra.Command
		args   []string
		expErr error
	}{
		{
			name: "missing from",
			cmd:  cli.NewUpdateGasPriceCmd(),
			args: []string{"ATOM", "1"},
		},
		{
			name: "unknown key",
			cmd:  cli.NewUpdateGasPriceCmd(),
			args: []string{"ATOM", "1", "--from", "nobody"},
		},
		{
			name: "address not in the keyring",
			cmd:  cli.NewUpdateGasPriceCmd(),
			args: []string{"ATOM", "1", "--from", sdk.AccAddress(make([]byte, 20)).String()},
		},
		{
			name:   "not the owner",
			cmd:    cli.NewUpdateConfigCmd(),
			args:   []string{s.owner.String(), "--from", "stranger"},
			expErr: types.ErrUnauthorized,
		},
		{
			name:   "bad value",
			cmd:    cli.NewUpdateGasPriceCmd(),
			args:   []string{"ATOM", "cheap", "--from", "owner"},
			expErr: types.ErrInvalidNumber,
		},
		{
			name: "instantiate through execute",
			cmd:  cli.NewExecuteCmd(),
			args: []string{`{"instantiate":{"owner":"x"}}`, "--from", "owner"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.run(tc.cmd, tc.args...)
			s.Require().Error(err)
			if tc.expErr != nil {
				s.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (s *CLITestSuite) TestExecuteFillsSender() {
	_, err := s.run(cli.NewExecuteCmd(), `{"update_gas_price":{"token":"JUNO","value":"0.075"}}`, "--from", "owner")
	s.Require().NoError(err)

	out, err := s.run(cli.GetCmdQuerySmart(), `{"gas_price":{"token":"JUNO"}}`)
	s.Require().NoError(err)
	s.Equal("0.075000000000000000", gjson.Get(out, "gas_price").String())
}

func (s *CLITestSuite) TestQueryOutputFormats() {
	out, err := s.run(cli.GetCmdQueryConfig())
	s.Require().NoError(err)
	s.Equal(s.owner.String(), gjson.Get(out, "owner").String())

	out, err = s.run(cli.GetCmdQueryConfig(), "--output", "yaml")
	s.Require().NoError(err)
	s.Equal("owner: "+s.owner.String()+"\n", out)

	_, err = s.run(cli.GetCmdQueryConfig(), "--output", "xml")
	s.Require().Error(err)

	out, err = s.run(cli.GetCmdQueryContractVersion())
	s.Require().NoError(err)
	s.Equal(types.ContractVersionString, gjson.Get(out, "version").String())

	_, err = s.run(cli.GetCmdQueryGasPrice(), "UNSET")
	s.Require().ErrorIs(err, types.ErrNotFound)
}

func TestGetCmdContextMissing(t *testing.T) {
	cmd := cli.GetCmdQueryConfig()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}
