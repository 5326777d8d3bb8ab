package keeper

import (
	"context"
	"strconv"

	"github.com/armon/go-metrics"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// MsgServer implementation
var _ types.MsgServer = &Keeper{}

// Instantiate implements types.MsgServer.
func (k Keeper) Instantiate(goCtx context.Context, msg *types.MsgInstantiate) (*types.MsgInstantiateResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	owner, err := k.api.AddrValidate(msg.Owner)
	if err != nil {
		return nil, err
	}

	version := types.DefaultContractVersion()
	k.SetContractVersion(ctx, version)
	k.SetConfig(ctx, types.Config{Owner: owner.String()})

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeInstantiate,
			sdk.NewAttribute(types.AttributeKeyMethod, types.TypeMsgInstantiate),
			sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyContract, version.Contract),
			sdk.NewAttribute(types.AttributeKeyVersion, version.Version),
		),
	)

	k.Logger(ctx).Debug("instantiated", "owner", owner.String(), "sender", msg.Sender)

	return &types.MsgInstantiateResponse{}, nil
}

// UpdateConfig implements types.MsgServer.
func (k Keeper) UpdateConfig(goCtx context.Context, msg *types.MsgUpdateConfig) (*types.MsgUpdateConfigResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.assertOwner(ctx, msg.Sender); err != nil {
		return nil, err
	}

	owner, err := k.api.AddrValidate(msg.Owner)
	if err != nil {
		return nil, err
	}

	// Update the KV store
	k.SetConfig(ctx, types.Config{Owner: owner.String()})

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUpdateConfig,
			sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
		),
	)

	return &types.MsgUpdateConfigResponse{}, nil
}

// UpdateGasPrice implements types.MsgServer. The entry for the token is replaced
// wholesale and stamped with the current block time.
func (k Keeper) UpdateGasPrice(goCtx context.Context, msg *types.MsgUpdateGasPrice) (*types.MsgUpdateGasPriceResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.assertOwner(ctx, msg.Sender); err != nil {
		return nil, err
	}

	price, err := k.api.ParseDecimal(msg.Value)
	if err != nil {
		return nil, err
	}

	gasPrice := types.NewGasPrice(price, blockTimeSeconds(ctx))
	k.SetGasPrice(ctx, msg.Token, gasPrice)

	if value, err := price.Float64(); err == nil {
		telemetry.SetGaugeWithLabels(
			[]string{types.ModuleName, "gas_price"},
			float32(value),
			[]metrics.Label{telemetry.NewLabel(types.AttributeKeyToken, msg.Token)},
		)
	}
	telemetry.IncrCounter(1, types.ModuleName, "update_gas_price")

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUpdateGasPrice,
			sdk.NewAttribute(types.AttributeKeyToken, msg.Token),
			sdk.NewAttribute(types.AttributeKeyGasPrice, gasPrice.GasPrice.String()),
			sdk.NewAttribute(types.AttributeKeyLastUpdated, strconv.FormatUint(gasPrice.LastUpdated, 10)),
		),
	)

	return &types.MsgUpdateGasPriceResponse{}, nil
}
