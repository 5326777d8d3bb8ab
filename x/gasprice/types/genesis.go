package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GasPriceEntry is a registry row as it appears in genesis.
type GasPriceEntry struct {
	Token       string  `json:"token"`
	GasPrice    sdk.Dec `json:"gas_price"`
	LastUpdated uint64  `json:"last_updated"`
}

// GenesisState is the exported form of the whole module state.
type GenesisState struct {
	Owner     string          `json:"owner"`
	GasPrices []GasPriceEntry `json:"gas_prices"`
}

// NewGenesisState creates a new genesis state.
func NewGenesisState(owner string, gasPrices []GasPriceEntry) GenesisState {
	return GenesisState{
		Owner:     owner,
		GasPrices: gasPrices,
	}
}

// DefaultGenesisState returns a genesis state with no owner and no prices.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Owner:     "",
		GasPrices: []GasPriceEntry{},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if gs.Owner == "" {
		return fmt.Errorf("owner address cannot be empty")
	}
	if _, err := sdk.AccAddressFromBech32(gs.Owner); err != nil {
		return fmt.Errorf("invalid owner address: %w", err)
	}

	seen := make(map[string]bool, len(gs.GasPrices))
	for _, entry := range gs.GasPrices {
		if seen[entry.Token] {
			return fmt.Errorf("duplicate gas price for token %q", entry.Token)
		}
		seen[entry.Token] = true

		if entry.GasPrice.IsNil() {
			return fmt.Errorf("gas price for token %q is not set", entry.Token)
		}
		if entry.GasPrice.IsNegative() {
			return fmt.Errorf("gas price for token %q is negative: %s", entry.Token, entry.GasPrice)
		}
	}

	return nil
}
