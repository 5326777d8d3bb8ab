package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// query variant names of the JSON envelope
const (
	QueryTypeConfig          = "config"
	QueryTypeGasPrice        = "gas_price"
	QueryTypeContractVersion = "contract_version"
)

// QueryMsg is implemented by every query request the module answers.
type QueryMsg interface {
	QueryType() string
}

// QueryServer is the read side of the module.
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*ConfigResponse, error)
	GasPrice(context.Context, *QueryGasPriceRequest) (*GasPriceResponse, error)
	ContractVersion(context.Context, *QueryContractVersionRequest) (*ContractVersion, error)
}

// QueryConfigRequest asks for the current owner.
type QueryConfigRequest struct{}

// QueryType implements QueryMsg.
func (QueryConfigRequest) QueryType() string { return QueryTypeConfig }

// ConfigResponse carries the current owner.
type ConfigResponse struct {
	Owner string `json:"owner"`
}

// QueryGasPriceRequest asks for the quote of one token.
type QueryGasPriceRequest struct {
	Token string `json:"token"`
}

// QueryType implements QueryMsg.
func (QueryGasPriceRequest) QueryType() string { return QueryTypeGasPrice }

// GasPriceResponse carries the quote of one token and the block time it was written at.
type GasPriceResponse struct {
	GasPrice    sdk.Dec `json:"gas_price"`
	LastUpdated uint64  `json:"last_updated"`
}

// QueryContractVersionRequest asks for the contract name and version.
type QueryContractVersionRequest struct{}

// QueryType implements QueryMsg.
func (QueryContractVersionRequest) QueryType() string { return QueryTypeContractVersion }
