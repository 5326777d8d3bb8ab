package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// QueryServer implementation
var _ types.QueryServer = Keeper{}

// Config returns the current owner.
func (k Keeper) Config(c context.Context, _ *types.QueryConfigRequest) (*types.ConfigResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	config, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &types.ConfigResponse{Owner: config.Owner}, nil
}

// GasPrice returns the quote of a token together with the block time of its last
// write. The query's own block time is never reported.
func (k Keeper) GasPrice(c context.Context, req *types.QueryGasPriceRequest) (*types.GasPriceResponse, error) {
	if req == nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "empty request")
	}

	ctx := sdk.UnwrapSDKContext(c)
	gasPrice, err := k.GetGasPrice(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	return &types.GasPriceResponse{
		GasPrice:    gasPrice.GasPrice,
		LastUpdated: gasPrice.LastUpdated,
	}, nil
}

// ContractVersion returns the contract name and version written at instantiation.
func (k Keeper) ContractVersion(c context.Context, _ *types.QueryContractVersionRequest) (*types.ContractVersion, error) {
	ctx := sdk.UnwrapSDKContext(c)
	version, err := k.GetContractVersion(ctx)
	if err != nil {
		return nil, err
	}

	return &version, nil
}
