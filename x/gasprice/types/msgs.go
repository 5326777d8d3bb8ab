package types

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// gasprice message types, also used as the variant names of the JSON envelope
const (
	TypeMsgInstantiate    = "instantiate"
	TypeMsgUpdateConfig   = "update_config"
	TypeMsgUpdateGasPrice = "update_gas_price"
)

// Msg is implemented by every message delivered to the module.
type Msg interface {
	Route() string
	Type() string
	ValidateBasic() error
	GetSignBytes() []byte
	GetSigners() []sdk.AccAddress
}

// MsgServer is the execute side of the module.
type MsgServer interface {
	Instantiate(context.Context, *MsgInstantiate) (*MsgInstantiateResponse, error)
	UpdateConfig(context.Context, *MsgUpdateConfig) (*MsgUpdateConfigResponse, error)
	UpdateGasPrice(context.Context, *MsgUpdateGasPrice) (*MsgUpdateGasPriceResponse, error)
}

var (
	_ Msg = &MsgInstantiate{}
	_ Msg = &MsgUpdateConfig{}
	_ Msg = &MsgUpdateGasPrice{}
)

// MsgInstantiate sets the initial owner.
type MsgInstantiate struct {
	Sender string `json:"sender"`
	Owner  string `json:"owner"`
}

// MsgInstantiateResponse is returned on a successful instantiation.
type MsgInstantiateResponse struct{}

// NewMsgInstantiate - construct a msg to instantiate the registry.
func NewMsgInstantiate(sender sdk.AccAddress, owner string) *MsgInstantiate {
	return &MsgInstantiate{Sender: sender.String(), Owner: owner}
}

// Route Implements Msg.
func (msg MsgInstantiate) Route() string { return RouterKey }

// Type Implements Msg.
func (msg MsgInstantiate) Type() string { return TypeMsgInstantiate }

// ValidateBasic Implements Msg. The owner is checked by the handler.
func (msg MsgInstantiate) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid sender address (%s)", err)
	}
	return nil
}

// GetSignBytes Implements Msg.
func (msg MsgInstantiate) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(&msg))
}

// GetSigners Implements Msg.
func (msg MsgInstantiate) GetSigners() []sdk.AccAddress {
	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{sender}
}

// MsgUpdateConfig hands ownership to a new address.
type MsgUpdateConfig struct {
	Sender string `json:"sender"`
	Owner  string `json:"owner"`
}

// MsgUpdateConfigResponse is returned on a successful owner update.
type MsgUpdateConfigResponse struct{}

// NewMsgUpdateConfig - construct a msg to change the owner.
func NewMsgUpdateConfig(sender sdk.AccAddress, owner string) *MsgUpdateConfig {
	return &MsgUpdateConfig{Sender: sender.String(), Owner: owner}
}

// Route Implements Msg.
func (msg MsgUpdateConfig) Route() string { return RouterKey }

// Type Implements Msg.
func (msg MsgUpdateConfig) Type() string { return TypeMsgUpdateConfig }

// ValidateBasic Implements Msg. The new owner is only validated once the sender is
// known to be the current owner.
func (msg MsgUpdateConfig) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid sender address (%s)", err)
	}
	return nil
}

// GetSignBytes Implements Msg.
func (msg MsgUpdateConfig) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(&msg))
}

// GetSigners Implements Msg.
func (msg MsgUpdateConfig) GetSigners() []sdk.AccAddress {
	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{sender}
}

// MsgUpdateGasPrice upserts the gas price of a token.
type MsgUpdateGasPrice struct {
	Sender string `json:"sender"`
	Token  string `json:"token"`
	Value  string `json:"value"`
}

// MsgUpdateGasPriceResponse is returned on a successful price update.
type MsgUpdateGasPriceResponse struct{}

// NewMsgUpdateGasPrice - construct a msg to set the gas price of a token.
func NewMsgUpdateGasPrice(sender sdk.AccAddress, token, value string) *MsgUpdateGasPrice {
	return &MsgUpdateGasPrice{Sender: sender.String(), Token: token, Value: value}
}

// Route Implements Msg.
func (msg MsgUpdateGasPrice) Route() string { return RouterKey }

// Type Implements Msg.
func (msg MsgUpdateGasPrice) Type() string { return TypeMsgUpdateGasPrice }

// ValidateBasic Implements Msg. The value is parsed by the handler after the
// ownership check.
func (msg MsgUpdateGasPrice) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid sender address (%s)", err)
	}
	return nil
}

// GetSignBytes Implements Msg.
func (msg MsgUpdateGasPrice) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(&msg))
}

// GetSigners Implements Msg.
func (msg MsgUpdateGasPrice) GetSigners() []sdk.AccAddress {
	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{sender}
}
