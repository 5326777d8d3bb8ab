package types

import (
	errorsmod "cosmossdk.io/errors"
)

// errors
var (
	ErrUnauthorized        = errorsmod.Register(ModuleName, 2, "the operation is allowed only from the owner address")
	ErrInvalidAddress      = errorsmod.Register(ModuleName, 3, "invalid address")
	ErrInvalidNumber       = errorsmod.Register(ModuleName, 4, "invalid number")
	ErrNotFound            = errorsmod.Register(ModuleName, 5, "not found")
	ErrAlreadyInstantiated = errorsmod.Register(ModuleName, 6, "contract already instantiated")
	ErrInvalidGenesis      = errorsmod.Register(ModuleName, 7, "invalid genesis state")
)
