package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

// ModuleCdc encodes persisted state, message sign bytes and query responses as JSON.
var ModuleCdc = codec.NewLegacyAmino()
