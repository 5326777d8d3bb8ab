package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Config holds the single owner allowed to mutate the registry.
type Config struct {
	Owner string `json:"owner"`
}

// GasPrice is the quote stored for one token.
type GasPrice struct {
	GasPrice    sdk.Dec `json:"gas_price"`
	LastUpdated uint64  `json:"last_updated"`
}

// NewGasPrice returns a GasPrice written at the given block time.
func NewGasPrice(price sdk.Dec, blockTime uint64) GasPrice {
	return GasPrice{
		GasPrice:    price,
		LastUpdated: blockTime,
	}
}

func (gp GasPrice) String() string {
	return fmt.Sprintf("%s@%d", gp.GasPrice, gp.LastUpdated)
}

// ContractVersion records which contract layout owns the store.
type ContractVersion struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

// DefaultContractVersion returns the version written by this build.
func DefaultContractVersion() ContractVersion {
	return ContractVersion{
		Contract: ContractName,
		Version:  ContractVersionString,
	}
}
