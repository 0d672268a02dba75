package relay

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	to := "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

	tests := []struct {
		name      string
		body      string
		wantValue *big.Int
		wantData  []byte
	}{
		{
			name:      "String zero value and empty calldata",
			body:      `{"to":"` + to + `","value":"0","data":"0x"}`,
			wantValue: big.NewInt(0),
			wantData:  []byte{},
		},
		{
			name:      "Numeric value",
			body:      `{"to":"` + to + `","value":12,"data":"0x12"}`,
			wantValue: big.NewInt(12),
			wantData:  []byte{0x12},
		},
		{
			name:      "Hex value",
			body:      `{"to":"` + to + `","value":"0xff","data":"0xdeadbeef"}`,
			wantValue: big.NewInt(255),
			wantData:  []byte{0xde, 0xad, 0xbe, 0xef},
		},
		{
			name:      "Exponent value",
			body:      `{"to":"` + to + `","value":1e3,"data":"0x00"}`,
			wantValue: big.NewInt(1000),
			wantData:  []byte{0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.body))
			require.NoError(t, err)

			assert.Equal(t, common.HexToAddress(to), req.To)
			assert.Equal(t, 0, tt.wantValue.Cmp(req.Value), "value = %s, want %s", req.Value, tt.wantValue)
			assert.Equal(t, tt.wantData, req.Data)
		})
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	to := "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"Empty to", `{"to":"","value":"1","data":"0x12"}`, "to"},
		{"Missing to", `{"value":"1","data":"0x12"}`, "to"},
		{"Null value", `{"to":"` + to + `","value":null,"data":"0x12"}`, "value"},
		{"Numeric zero value", `{"to":"` + to + `","value":0,"data":"0x12"}`, "value"},
		{"Float zero value", `{"to":"` + to + `","value":0.0,"data":"0x12"}`, "value"},
		{"Missing data", `{"to":"` + to + `","value":"1"}`, "data"},
		{"False data", `{"to":"` + to + `","value":"1","data":false}`, "data"},
		{"Bad address", `{"to":"0x1234","value":"1","data":"0x12"}`, "to"},
		{"Numeric address", `{"to":1,"value":"1","data":"0x12"}`, "to"},
		{"Negative value", `{"to":"` + to + `","value":"-1","data":"0x12"}`, "value"},
		{"Fractional value", `{"to":"` + to + `","value":1.5,"data":"0x12"}`, "value"},
		{"Garbage value", `{"to":"` + to + `","value":"abc","data":"0x12"}`, "value"},
		{"Oversized value", `{"to":"` + to + `","value":"0x1` + zeros(64) + `","data":"0x12"}`, "value"},
		{"Huge exponent value", `{"to":"` + to + `","value":1e600000000,"data":"0x12"}`, "value"},
		{"Numeric value over uint256", `{"to":"` + to + `","value":1e78,"data":"0x12"}`, "value"},
		{"Data without prefix", `{"to":"` + to + `","value":"1","data":"1234"}`, "data"},
		{"Odd length data", `{"to":"` + to + `","value":"1","data":"0x123"}`, "data"},
		{"Not an object", `["to","value","data"]`, "body"},
		{"Not json", `to=0x&value=1`, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.body))
			assert.Nil(t, req)
			assert.True(t, errors.Is(err, ErrInvalidData))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{``, false},
		{`null`, false},
		{`false`, false},
		{`""`, false},
		{`0`, false},
		{`-0`, false},
		{`0.0`, false},
		{`"0"`, true},
		{`"0x"`, true},
		{`1`, true},
		{`true`, true},
		{`{}`, true},
		{`[]`, true},
	}

	for _, tt := range tests {
		if got := truthy([]byte(tt.raw)); got != tt.want {
			t.Errorf("truthy(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}
