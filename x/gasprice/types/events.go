package types

// gasprice module event types
const (
	EventTypeInstantiate    = "instantiate"
	EventTypeUpdateConfig   = "update_config"
	EventTypeUpdateGasPrice = "update_gas_price"

	AttributeKeyMethod      = "method"
	AttributeKeySender      = "sender"
	AttributeKeyOwner       = "owner"
	AttributeKeyToken       = "token"
	AttributeKeyGasPrice    = "gas_price"
	AttributeKeyLastUpdated = "last_updated"
	AttributeKeyContract    = "contract"
	AttributeKeyVersion     = "version"
)
