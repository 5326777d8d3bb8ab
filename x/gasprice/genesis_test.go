package gasprice_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/GPTx-global/gasoracle/x/gasprice"
	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

func TestInitGenesis(t *testing.T) {
	owner := testAddress("owner")

	testCases := []struct {
		name     string
		genState types.GenesisState
		expPanic bool
	}{
		{
			name:     "owner only",
			genState: types.NewGenesisState(owner.String(), nil),
		},
		{
			name: "owner and prices",
			genState: types.NewGenesisState(owner.String(), []types.GasPriceEntry{
				{Token: "ATOM", GasPrice: sdk.MustNewDecFromStr("1.25"), LastUpdated: 10},
				{Token: "OSMO", GasPrice: sdk.MustNewDecFromStr("0.0025"), LastUpdated: 20},
			}),
		},
		{
			name: "updated at the block time",
			genState: types.NewGenesisState(owner.String(), []types.GasPriceEntry{
				{Token: "ATOM", GasPrice: sdk.MustNewDecFromStr("1.25"), LastUpdated: 1_700_000_000},
			}),
		},
		{
			name: "updated after the block time",
			genState: types.NewGenesisState(owner.String(), []types.GasPriceEntry{
				{Token: "ATOM", GasPrice: sdk.MustNewDecFromStr("1.25"), LastUpdated: 1_700_000_001},
			}),
			expPanic: true,
		},
		{
			name:     "default genesis has no owner",
			genState: *types.DefaultGenesisState(),
			expPanic: true,
		},
		{
			name: "negative price",
			genState: types.NewGenesisState(owner.String(), []types.GasPriceEntry{
				{Token: "ATOM", GasPrice: sdk.MustNewDecFromStr("-1"), LastUpdated: 10},
			}),
			expPanic: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k, ctx := setupKeeper(t)

			if tc.expPanic {
				require.Panics(t, func() {
					gasprice.InitGenesis(ctx, k, tc.genState)
				})
				return
			}

			require.NotPanics(t, func() {
				gasprice.InitGenesis(ctx, k, tc.genState)
			})

			exported := gasprice.ExportGenesis(ctx, k)
			require.Equal(t, tc.genState.Owner, exported.Owner)
			require.Len(t, exported.GasPrices, len(tc.genState.GasPrices))
			for i, entry := range tc.genState.GasPrices {
				require.Equal(t, entry.Token, exported.GasPrices[i].Token)
				require.True(t, entry.GasPrice.Equal(exported.GasPrices[i].GasPrice))
				require.Equal(t, entry.LastUpdated, exported.GasPrices[i].LastUpdated)
			}

			version, err := k.GetContractVersion(ctx)
			require.NoError(t, err)
			require.Equal(t, types.DefaultContractVersion(), version)
		})
	}
}

func TestExportGenesisEmpty(t *testing.T) {
	k, ctx := setupKeeper(t)

	exported := gasprice.ExportGenesis(ctx, k)
	require.Empty(t, exported.Owner)
	require.Empty(t, exported.GasPrices)
}
