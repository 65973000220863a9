package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserID(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"plain id", "123456789", 123456789, false},
		{"surrounding whitespace", "  42  ", 42, false},
		{"negative id", "-5", -5, false},
		{"non-numeric", "alice", 0, true},
		{"empty", "", 0, true},
		{"two tokens", "1 2", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ParseUserID(tc.input)
			if tc.wantErr {
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestParsePromoSpec(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    PromoSpec
		wantErr bool
	}{
		{"value and uses", "500 3", PromoSpec{Value: 500, MaxUses: 3}, false},
		{"with code", "1000 1 WIN2025", PromoSpec{Value: 1000, MaxUses: 1, Code: "WIN2025"}, false},
		{"code is upper-cased", "100 5 summer", PromoSpec{Value: 100, MaxUses: 5, Code: "SUMMER"}, false},
		{"one token", "500", PromoSpec{}, true},
		{"four tokens", "500 3 A B", PromoSpec{}, true},
		{"non-numeric value", "abc 3", PromoSpec{}, true},
		{"non-numeric uses", "500 x", PromoSpec{}, true},
		{"zero uses", "500 0", PromoSpec{}, true},
		{"negative uses", "500 -1", PromoSpec{}, true},
		{"empty", "", PromoSpec{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := ParsePromoSpec(tc.input)
			if tc.wantErr {
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, spec)
		})
	}
}

func TestParseGrantSpec(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    GrantSpec
		wantErr bool
	}{
		{"positive amount", "123456789 500", GrantSpec{UserID: 123456789, Amount: 500}, false},
		{"negative amount", "42 -100", GrantSpec{UserID: 42, Amount: -100}, false},
		{"one token", "42", GrantSpec{}, true},
		{"three tokens", "42 100 extra", GrantSpec{}, true},
		{"non-numeric id", "bob 100", GrantSpec{}, true},
		{"non-numeric amount", "42 lots", GrantSpec{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := ParseGrantSpec(tc.input)
			if tc.wantErr {
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, spec)
		})
	}
}
