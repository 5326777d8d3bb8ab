package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// API abstracts the host services the contract logic relies on.
type API interface {
	// AddrValidate parses a human readable address, failing with ErrInvalidAddress.
	AddrValidate(addr string) (sdk.AccAddress, error)
	// ParseDecimal parses a non-negative decimal, failing with ErrInvalidNumber.
	ParseDecimal(value string) (sdk.Dec, error)
}

// DefaultAPI validates bech32 account addresses and 18-digit fixed point decimals.
type DefaultAPI struct{}

var _ API = DefaultAPI{}

// AddrValidate implements API.
func (DefaultAPI) AddrValidate(addr string) (sdk.AccAddress, error) {
	accAddr, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidAddress, "%s: %s", addr, err)
	}
	return accAddr, nil
}

// ParseDecimal implements API.
func (DefaultAPI) ParseDecimal(value string) (sdk.Dec, error) {
	dec, err := sdk.NewDecFromStr(value)
	if err != nil {
		return sdk.Dec{}, errorsmod.Wrapf(ErrInvalidNumber, "%q: %s", value, err)
	}
	if dec.IsNegative() {
		return sdk.Dec{}, errorsmod.Wrapf(ErrInvalidNumber, "%q is negative", value)
	}
	return dec, nil
}
