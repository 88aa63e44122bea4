package money

import (
	"testing"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		fee       int
		stake     int
		wantFee   string
		wantStake string
		wantOrg   string
	}{
		{"demo raffle", "10", 5, 10, "0.5", "1", "8.5"},
		{"no fee or stake", "10", 0, 0, "0", "0", "10"},
		{"everything split away", "10", 40, 60, "4", "6", "0"},
		{"all fee", "7", 100, 0, "7", "0", "0"},
		{"remainder goes to organizer", "0.0000000003", 50, 10, "0.0000000001", "0", "0.0000000002"},
		{"planck prices", "1.0000000001", 33, 33, "0.33", "0.33", "0.3400000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split, err := Split(dec(tt.price), tt.fee, tt.stake)
			require.NoError(t, err)

			assert.True(t, split.Fee.Equal(dec(tt.wantFee)), "fee: got %s", split.Fee)
			assert.True(t, split.Stake.Equal(dec(tt.wantStake)), "stake: got %s", split.Stake)
			assert.True(t, split.OrganizerShare.Equal(dec(tt.wantOrg)), "organizer: got %s", split.OrganizerShare)
			assert.True(t, split.Total().Equal(dec(tt.price)), "split must sum to price")
		})
	}
}

func TestSplit_SumsExactlyForAllPercentages(t *testing.T) {
	prices := []string{"1", "0.0000000001", "3.3333333333", "999999.9999999999", "12.5"}
	for _, p := range prices {
		price := dec(p)
		for fee := 0; fee <= 100; fee++ {
			for stake := 0; fee+stake <= 100; stake += 7 {
				split, err := Split(price, fee, stake)
				require.NoError(t, err)
				require.True(t, split.Total().Equal(price), "price=%s fee=%d stake=%d", p, fee, stake)
				require.False(t, split.OrganizerShare.IsNegative())
			}
		}
	}
}

func TestSplit_Errors(t *testing.T) {
	_, err := Split(dec("10"), 60, 41)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPercentage)

	_, err = Split(dec("10"), -1, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPercentage)

	_, err = Split(decimal.Zero, 5, 5)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)

	_, err = Split(dec("-3"), 5, 5)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)

	_, err = Split(dec("0.00000000001"), 5, 5)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("2.25")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("2.25")))

	_, err = ParseAmount("two")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)

	_, err = ParseAmount("0")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
}
