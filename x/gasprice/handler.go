package gasprice

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// Handler executes one instantiate or execute message against ctx.
type Handler func(ctx sdk.Context, msg types.Msg) (*sdk.Result, error)

// Querier answers one query against ctx and returns the JSON encoded response.
type Querier func(ctx sdk.Context, req types.QueryMsg) ([]byte, error)

// NewHandler defines the gasprice module handler instance
func NewHandler(server types.MsgServer) Handler {
	return func(ctx sdk.Context, msg types.Msg) (*sdk.Result, error) {
		ctx = ctx.WithEventManager(sdk.NewEventManager())

		switch msg := msg.(type) {
		case *types.MsgInstantiate:
			res, err := server.Instantiate(sdk.WrapSDKContext(ctx), msg)
			return wrapResult(ctx, res, err)
		case *types.MsgUpdateConfig:
			res, err := server.UpdateConfig(sdk.WrapSDKContext(ctx), msg)
			return wrapResult(ctx, res, err)
		case *types.MsgUpdateGasPrice:
			res, err := server.UpdateGasPrice(sdk.WrapSDKContext(ctx), msg)
			return wrapResult(ctx, res, err)
		default:
			err := errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
			return nil, err
		}
	}
}

// NewQuerier defines the gasprice module querier instance
func NewQuerier(server types.QueryServer) Querier {
	return func(ctx sdk.Context, req types.QueryMsg) ([]byte, error) {
		switch req := req.(type) {
		case *types.QueryConfigRequest:
			res, err := server.Config(sdk.WrapSDKContext(ctx), req)
			return marshalResponse(res, err)
		case *types.QueryGasPriceRequest:
			res, err := server.GasPrice(sdk.WrapSDKContext(ctx), req)
			return marshalResponse(res, err)
		case *types.QueryContractVersionRequest:
			res, err := server.ContractVersion(sdk.WrapSDKContext(ctx), req)
			return marshalResponse(res, err)
		default:
			err := errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s query type: %T", types.ModuleName, req)
			return nil, err
		}
	}
}

func wrapResult(ctx sdk.Context, res interface{}, err error) (*sdk.Result, error) {
	if err != nil {
		return nil, err
	}

	data, err := types.ModuleCdc.MarshalJSON(res)
	if err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrJSONMarshal, err.Error())
	}

	return &sdk.Result{
		Data:   data,
		Events: ctx.EventManager().ABCIEvents(),
	}, nil
}

func marshalResponse(res interface{}, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}

	bz, err := types.ModuleCdc.MarshalJSON(res)
	if err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrJSONMarshal, err.Error())
	}
	return bz, nil
}
