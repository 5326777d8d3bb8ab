package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/store/prefix"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// Keeper of the gasprice store
type Keeper struct {
	// JSON codec for persisted records
	cdc *codec.LegacyAmino

	storeKey storetypes.StoreKey

	// address validation and decimal parsing provided by the host
	api types.API
}

func NewKeeper(
	cdc *codec.LegacyAmino,
	storeKey storetypes.StoreKey,
	api types.API,
) Keeper {
	if api == nil {
		api = types.DefaultAPI{}
	}

	return Keeper{
		cdc:      cdc,
		storeKey: storeKey,
		api:      api,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// HasConfig reports whether the registry has been instantiated.
func (k Keeper) HasConfig(ctx sdk.Context) bool {
	store := ctx.KVStore(k.storeKey)
	return store.Has(types.KeyConfig)
}

// GetConfig returns the stored config, or ErrNotFound before instantiation.
func (k Keeper) GetConfig(ctx sdk.Context) (types.Config, error) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.KeyConfig)
	if len(bz) == 0 {
		return types.Config{}, errorsmod.Wrap(types.ErrNotFound, "config")
	}

	var config types.Config
	k.cdc.MustUnmarshalJSON(bz, &config)
	return config, nil
}

// SetConfig overwrites the stored config.
func (k Keeper) SetConfig(ctx sdk.Context, config types.Config) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyConfig, k.cdc.MustMarshalJSON(&config))
}

// GetGasPrice returns the stored quote of token, or ErrNotFound.
func (k Keeper) GetGasPrice(ctx sdk.Context, token string) (types.GasPrice, error) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyPrefixGasPrice)
	bz := store.Get([]byte(token))
	if len(bz) == 0 {
		return types.GasPrice{}, errorsmod.Wrapf(types.ErrNotFound, "gas price for token %q", token)
	}

	var gasPrice types.GasPrice
	k.cdc.MustUnmarshalJSON(bz, &gasPrice)
	return gasPrice, nil
}

// SetGasPrice replaces whatever is stored for token.
func (k Keeper) SetGasPrice(ctx sdk.Context, token string, gasPrice types.GasPrice) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyPrefixGasPrice)
	store.Set([]byte(token), k.cdc.MustMarshalJSON(&gasPrice))
}

// IterateGasPrices walks the registry in key order until cb returns true.
func (k Keeper) IterateGasPrices(ctx sdk.Context, cb func(token string, gasPrice types.GasPrice) (stop bool)) {
	store := ctx.KVStore(k.storeKey)
	iterator := sdk.KVStorePrefixIterator(store, types.KeyPrefixGasPrice)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var gasPrice types.GasPrice
		k.cdc.MustUnmarshalJSON(iterator.Value(), &gasPrice)

		if cb(types.ParseGasPriceKey(iterator.Key()), gasPrice) {
			break
		}
	}
}

// GetAllGasPrices returns every registry row. Used by genesis export only.
func (k Keeper) GetAllGasPrices(ctx sdk.Context) []types.GasPriceEntry {
	entries := []types.GasPriceEntry{}
	k.IterateGasPrices(ctx, func(token string, gasPrice types.GasPrice) bool {
		entries = append(entries, types.GasPriceEntry{
			Token:       token,
			GasPrice:    gasPrice.GasPrice,
			LastUpdated: gasPrice.LastUpdated,
		})
		return false
	})
	return entries
}

// GetContractVersion returns the name and version written at instantiation.
func (k Keeper) GetContractVersion(ctx sdk.Context) (types.ContractVersion, error) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.KeyContractVersion)
	if len(bz) == 0 {
		return types.ContractVersion{}, errorsmod.Wrap(types.ErrNotFound, "contract version")
	}

	var version types.ContractVersion
	k.cdc.MustUnmarshalJSON(bz, &version)
	return version, nil
}

// SetContractVersion records the contract name and version.
func (k Keeper) SetContractVersion(ctx sdk.Context, version types.ContractVersion) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyContractVersion, k.cdc.MustMarshalJSON(&version))
}

// assertOwner fails with ErrUnauthorized unless sender is the stored owner.
func (k Keeper) assertOwner(ctx sdk.Context, sender string) error {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}

	senderAddr, err := sdk.AccAddressFromBech32(sender)
	if err != nil || senderAddr.String() != config.Owner {
		return errorsmod.Wrapf(types.ErrUnauthorized, "expected: %s, got: %s", config.Owner, sender)
	}
	return nil
}

// blockTimeSeconds is the current block time as seconds since epoch.
func blockTimeSeconds(ctx sdk.Context) uint64 {
	secs := ctx.BlockTime().Unix()
	if secs < 0 {
		return 0
	}
	return uint64(secs)
}
