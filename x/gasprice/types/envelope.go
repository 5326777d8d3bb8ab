package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ParseExecuteMsg decodes a tagged union such as
// {"update_gas_price":{"sender":"...","token":"ATOM","value":"1.25"}}.
func ParseExecuteMsg(bz []byte) (Msg, error) {
	variant, body, err := splitEnvelope(bz)
	if err != nil {
		return nil, err
	}

	var msg Msg
	switch variant {
	case TypeMsgInstantiate:
		msg = &MsgInstantiate{}
	case TypeMsgUpdateConfig:
		msg = &MsgUpdateConfig{}
	case TypeMsgUpdateGasPrice:
		msg = &MsgUpdateGasPrice{}
	default:
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message variant: %s", ModuleName, variant)
	}

	if err := ModuleCdc.UnmarshalJSON(body, msg); err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrJSONUnmarshal, "%s: %s", variant, err)
	}
	return msg, nil
}

// ParseQueryMsg decodes a tagged union such as {"gas_price":{"token":"ATOM"}}.
func ParseQueryMsg(bz []byte) (QueryMsg, error) {
	variant, body, err := splitEnvelope(bz)
	if err != nil {
		return nil, err
	}

	var query QueryMsg
	switch variant {
	case QueryTypeConfig:
		query = &QueryConfigRequest{}
	case QueryTypeGasPrice:
		query = &QueryGasPriceRequest{}
	case QueryTypeContractVersion:
		query = &QueryContractVersionRequest{}
	default:
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s query variant: %s", ModuleName, variant)
	}

	if err := ModuleCdc.UnmarshalJSON(body, query); err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrJSONUnmarshal, "%s: %s", variant, err)
	}
	return query, nil
}

// MarshalExecuteMsg encodes msg in its tagged union form.
func MarshalExecuteMsg(msg Msg) ([]byte, error) {
	return marshalEnvelope(msg.Type(), msg)
}

// MarshalQueryMsg encodes query in its tagged union form.
func MarshalQueryMsg(query QueryMsg) ([]byte, error) {
	return marshalEnvelope(query.QueryType(), query)
}

func marshalEnvelope(variant string, body interface{}) ([]byte, error) {
	bz, err := ModuleCdc.MarshalJSON(body)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrJSONMarshal, "%s: %s", variant, err)
	}
	return sjson.SetRawBytes([]byte(`{}`), variant, bz)
}

// splitEnvelope returns the single top level key and its object body.
func splitEnvelope(bz []byte) (string, []byte, error) {
	if !gjson.ValidBytes(bz) {
		return "", nil, errorsmod.Wrap(sdkerrors.ErrJSONUnmarshal, "invalid json")
	}

	root := gjson.ParseBytes(bz)
	if !root.IsObject() {
		return "", nil, errorsmod.Wrap(sdkerrors.ErrJSONUnmarshal, "message must be a json object")
	}

	var variants []string
	var body gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		variants = append(variants, key.String())
		body = value
		return true
	})

	if len(variants) != 1 {
		return "", nil, errorsmod.Wrapf(sdkerrors.ErrJSONUnmarshal, "expected exactly one message variant, got %d", len(variants))
	}
	if !body.IsObject() {
		return "", nil, errorsmod.Wrapf(sdkerrors.ErrJSONUnmarshal, "%s: body must be a json object", variants[0])
	}
	return variants[0], []byte(body.Raw), nil
}
