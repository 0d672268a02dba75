package relay

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RawRequest is the body of a relay request as sent by the client.
type RawRequest struct {
	To    json.RawMessage `json:"to"`
	Value json.RawMessage `json:"value"`
	Data  json.RawMessage `json:"data"`
}

// Request is a validated relay request.
type Request struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// ParseRequest decodes and validates a request body.
func ParseRequest(body []byte) (*Request, error) {
	var raw RawRequest
	err := json.Unmarshal(body, &raw)
	if err != nil {
		return nil, &ValidationError{Field: "body", Reason: "not a json object"}
	}

	return raw.Validate()
}

// Validate checks that to, value and data are all present and truthy and
// converts them to their typed form.
func (r *RawRequest) Validate() (*Request, error) {
	fields := []struct {
		name string
		raw  json.RawMessage
	}{
		{"data", r.Data},
		{"to", r.To},
		{"value", r.Value},
	}

	for _, f := range fields {
		if !truthy(f.raw) {
			return nil, &ValidationError{Field: f.name, Reason: "missing"}
		}
	}

	to, err := parseAddress(r.To)
	if err != nil {
		return nil, err
	}

	value, err := parseValue(r.Value)
	if err != nil {
		return nil, err
	}

	data, err := parseData(r.Data)
	if err != nil {
		return nil, err
	}

	return &Request{To: to, Value: value, Data: data}, nil
}

// truthy follows javascript truthiness for a raw json value.
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}

	switch v[0] {
	case 'n', 'f':
		// null, false
		return false
	case 't', '{', '[':
		return true
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return false
		}
		return s != ""
	default:
		f, ok := new(big.Float).SetString(string(v))
		if !ok {
			return false
		}
		return f.Sign() != 0
	}
}

func parseAddress(raw json.RawMessage) (common.Address, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return common.Address{}, &ValidationError{Field: "to", Reason: "not a string"}
	}

	if !common.IsHexAddress(s) {
		return common.Address{}, &ValidationError{Field: "to", Reason: "not a hex address"}
	}

	return common.HexToAddress(s), nil
}

func parseValue(raw json.RawMessage) (*big.Int, error) {
	v := bytes.TrimSpace(raw)

	var value *big.Int
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, &ValidationError{Field: "value", Reason: "not a string"}
		}

		ok := false
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			value, ok = new(big.Int).SetString(s[2:], 16)
		} else {
			value, ok = new(big.Int).SetString(s, 10)
		}
		if !ok {
			return nil, &ValidationError{Field: "value", Reason: "not an integer"}
		}
	} else {
		f, ok := new(big.Float).SetString(string(v))
		if !ok || !f.IsInt() {
			return nil, &ValidationError{Field: "value", Reason: "not an integer"}
		}

		// Int would materialize every digit of 1e600000000
		if f.MantExp(nil) > 256 {
			return nil, &ValidationError{Field: "value", Reason: "exceeds uint256"}
		}
		value, _ = f.Int(nil)
	}

	if value.Sign() < 0 {
		return nil, &ValidationError{Field: "value", Reason: "negative"}
	}

	if value.BitLen() > 256 {
		return nil, &ValidationError{Field: "value", Reason: "exceeds uint256"}
	}

	return value, nil
}

func parseData(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &ValidationError{Field: "data", Reason: "not a string"}
	}

	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, &ValidationError{Field: "data", Reason: err.Error()}
	}

	return data, nil
}
