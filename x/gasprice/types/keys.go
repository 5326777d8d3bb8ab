package types

const (
	// ModuleName defines the module name
	ModuleName = "gasprice"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// MemStoreKey defines the in-memory store key
	MemStoreKey = "mem_gasprice"
)

// ContractName and ContractVersionString identify the layout written at instantiation.
const (
	ContractName          = "gasoracle"
	ContractVersionString = "0.1.0"
)

// KV Store key prefix bytes. These are persisted and must never be renumbered.
const (
	prefixConfig = iota + 1
	prefixGasPrice
	prefixContractVersion
)

// KV Store key prefixes
var (
	KeyConfig          = []byte{prefixConfig}
	KeyPrefixGasPrice  = []byte{prefixGasPrice}
	KeyContractVersion = []byte{prefixContractVersion}
)

// GetGasPriceKey returns the key for storing the gas price of a token
func GetGasPriceKey(token string) []byte {
	return append(append([]byte{}, KeyPrefixGasPrice...), []byte(token)...)
}

// ParseGasPriceKey returns the token of a full gas price key
func ParseGasPriceKey(key []byte) string {
	return string(key[len(KeyPrefixGasPrice):])
}
