package keeper

import (
	"testing"
	"time"

	"github.com/cosmos/cosmos-sdk/store"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmdb "github.com/tendermint/tm-db"

	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// setupKeeper creates a new Keeper instance and context for testing
func setupKeeper(t *testing.T) (Keeper, sdk.Context) {
	storeKey := sdk.NewKVStoreKey(types.StoreKey)

	db := tmdb.NewMemDB()
	stateStore := store.NewCommitMultiStore(db)
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	header := tmproto.Header{Height: 1, Time: time.Unix(1_700_000_000, 0).UTC()}
	ctx := sdk.NewContext(stateStore, header, false, log.NewNopLogger())

	keeper := NewKeeper(types.ModuleCdc, storeKey, types.DefaultAPI{})

	return keeper, ctx
}

func testAddress(seed string) sdk.AccAddress {
	bz := make([]byte, 20)
	copy(bz, seed)
	return sdk.AccAddress(bz)
}

// dumpStore returns every key/value pair of the module store
func dumpStore(k Keeper, ctx sdk.Context) map[string]string {
	out := map[string]string{}
	iterator := ctx.KVStore(k.storeKey).Iterator(nil, nil)
	defer iterator.Close()
	for ; iterator.Valid(); iterator.Next() {
		out[string(iterator.Key())] = string(iterator.Value())
	}
	return out
}

// TestSetAndGetConfig tests the setting and getting of the config record
func TestSetAndGetConfig(t *testing.T) {
	keeper, ctx := setupKeeper(t)

	// Nothing stored before instantiation
	require.False(t, keeper.HasConfig(ctx))
	_, err := keeper.GetConfig(ctx)
	require.ErrorIs(t, err, types.ErrNotFound)

	owner := testAddress("owner").String()
	keeper.SetConfig(ctx, types.Config{Owner: owner})

	config, err := keeper.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, owner, config.Owner)
	assert.True(t, keeper.HasConfig(ctx))
}

// TestSetAndGetGasPrice tests the setting and getting of registry rows
func TestSetAndGetGasPrice(t *testing.T) {
	keeper, ctx := setupKeeper(t)

	_, err := keeper.GetGasPrice(ctx, "ATOM")
	require.ErrorIs(t, err, types.ErrNotFound)

	keeper.SetGasPrice(ctx, "ATOM", types.NewGasPrice(sdk.MustNewDecFromStr("1.25"), 100))

	gasPrice, err := keeper.GetGasPrice(ctx, "ATOM")
	require.NoError(t, err)
	assert.True(t, sdk.MustNewDecFromStr("1.25").Equal(gasPrice.GasPrice))
	assert.Equal(t, uint64(100), gasPrice.LastUpdated)

	// Overwrite replaces the whole record
	keeper.SetGasPrice(ctx, "ATOM", types.NewGasPrice(sdk.MustNewDecFromStr("0.5"), 200))
	gasPrice, err = keeper.GetGasPrice(ctx, "ATOM")
	require.NoError(t, err)
	assert.True(t, sdk.MustNewDecFromStr("0.5").Equal(gasPrice.GasPrice))
	assert.Equal(t, uint64(200), gasPrice.LastUpdated)

	// Tokens are independent keys
	_, err = keeper.GetGasPrice(ctx, "ATOM2")
	require.ErrorIs(t, err, types.ErrNotFound)
}

// TestIterateGasPrices tests walking the registry prefix
func TestIterateGasPrices(t *testing.T) {
	keeper, ctx := setupKeeper(t)

	keeper.SetConfig(ctx, types.Config{Owner: testAddress("owner").String()})
	keeper.SetContractVersion(ctx, types.DefaultContractVersion())
	keeper.SetGasPrice(ctx, "OSMO", types.NewGasPrice(sdk.MustNewDecFromStr("0.0025"), 3))
	keeper.SetGasPrice(ctx, "ATOM", types.NewGasPrice(sdk.MustNewDecFromStr("0.025"), 1))
	keeper.SetGasPrice(ctx, "JUNO", types.NewGasPrice(sdk.MustNewDecFromStr("0.075"), 2))

	entries := keeper.GetAllGasPrices(ctx)
	require.Len(t, entries, 3)
	assert.Equal(t, "ATOM", entries[0].Token)
	assert.Equal(t, "JUNO", entries[1].Token)
	assert.Equal(t, "OSMO", entries[2].Token)

	var visited []string
	keeper.IterateGasPrices(ctx, func(token string, _ types.GasPrice) bool {
		visited = append(visited, token)
		return len(visited) == 2
	})
	assert.Equal(t, []string{"ATOM", "JUNO"}, visited)
}

// TestSetAndGetContractVersion tests the contract version record
func TestSetAndGetContractVersion(t *testing.T) {
	keeper, ctx := setupKeeper(t)

	_, err := keeper.GetContractVersion(ctx)
	require.ErrorIs(t, err, types.ErrNotFound)

	keeper.SetContractVersion(ctx, types.DefaultContractVersion())
	version, err := keeper.GetContractVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ContractName, version.Contract)
	assert.Equal(t, types.ContractVersionString, version.Version)
}

func TestAssertOwner(t *testing.T) {
	keeper, ctx := setupKeeper(t)
	owner := testAddress("owner")

	// No config yet
	require.ErrorIs(t, keeper.assertOwner(ctx, owner.String()), types.ErrNotFound)

	keeper.SetConfig(ctx, types.Config{Owner: owner.String()})

	require.NoError(t, keeper.assertOwner(ctx, owner.String()))
	require.ErrorIs(t, keeper.assertOwner(ctx, testAddress("other").String()), types.ErrUnauthorized)
	require.ErrorIs(t, keeper.assertOwner(ctx, "not-an-address"), types.ErrUnauthorized)
	require.ErrorIs(t, keeper.assertOwner(ctx, ""), types.ErrUnauthorized)
}

func TestBlockTimeSeconds(t *testing.T) {
	_, ctx := setupKeeper(t)

	assert.Equal(t, uint64(1_700_000_000), blockTimeSeconds(ctx))
	assert.Equal(t, uint64(0), blockTimeSeconds(ctx.WithBlockTime(time.Time{})))
}
