package gasprice

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/gasoracle/x/gasprice/keeper"
	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// InitGenesis new gasprice genesis
func InitGenesis(ctx sdk.Context, k keeper.Keeper, data types.GenesisState) {
	if err := data.Validate(); err != nil {
		panic(errorsmod.Wrapf(types.ErrInvalidGenesis, "%s", err))
	}

	// an imported entry may not claim a write later than the current block
	now := ctx.BlockTime().Unix()
	for _, entry := range data.GasPrices {
		if now < 0 || entry.LastUpdated > uint64(now) {
			panic(errorsmod.Wrapf(types.ErrInvalidGenesis, "gas price of %q last updated at %d, after block time %d", entry.Token, entry.LastUpdated, now))
		}
	}

	k.SetContractVersion(ctx, types.DefaultContractVersion())
	k.SetConfig(ctx, types.Config{Owner: sdk.MustAccAddressFromBech32(data.Owner).String()})

	for _, entry := range data.GasPrices {
		k.SetGasPrice(ctx, entry.Token, types.NewGasPrice(entry.GasPrice, entry.LastUpdated))
	}
}

// ExportGenesis returns a GenesisState for a given context and keeper.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) types.GenesisState {
	var owner string
	if config, err := k.GetConfig(ctx); err == nil {
		owner = config.Owner
	}

	return types.NewGenesisState(owner, k.GetAllGasPrices(ctx))
}
