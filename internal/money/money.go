// Package money implements exact fixed-point arithmetic for ticket prices and
// percentage payment splits. All amounts are shopspring decimals, never floats.
package money

import (
	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places an amount may carry (planck precision).
const Scale int32 = 10

var hundred = decimal.NewFromInt(100)

// PaymentSplit is the three-way distribution of a single ticket price
type PaymentSplit struct {
	Fee            decimal.Decimal `json:"fee"`
	Stake          decimal.Decimal `json:"stake"`
	OrganizerShare decimal.Decimal `json:"organizerShare"`
}

// Total returns fee + stake + organizer share
func (s PaymentSplit) Total() decimal.Decimal {
	return s.Fee.Add(s.Stake).Add(s.OrganizerShare)
}

// ValidatePercentages checks that both percentages are non-negative and sum to at most 100
func ValidatePercentages(feePercent, stakePercent int) error {
	if feePercent < 0 || stakePercent < 0 {
		return apperrors.NewError(apperrors.KindInvalidPercentage, "percentages must be non-negative (fee=%d, stake=%d)", feePercent, stakePercent)
	}
	if feePercent+stakePercent > 100 {
		return apperrors.NewError(apperrors.KindInvalidPercentage, "fee%% + stake%% must not exceed 100 (got %d)", feePercent+stakePercent)
	}
	return nil
}

// ValidatePrice checks that a price is positive and representable at Scale
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return apperrors.NewError(apperrors.KindInvalidPrice, "price must be positive (got %s)", price.String())
	}
	if !price.Equal(price.Truncate(Scale)) {
		return apperrors.NewError(apperrors.KindInvalidPrice, "price %s has more than %d decimal places", price.String(), Scale)
	}
	return nil
}

// Split divides price into fee, stake and organizer share.
// Fee and stake are truncated to Scale and the organizer receives the remainder,
// so the three parts always sum exactly to price.
func Split(price decimal.Decimal, feePercent, stakePercent int) (PaymentSplit, error) {
	if err := ValidatePrice(price); err != nil {
		return PaymentSplit{}, err
	}
	if err := ValidatePercentages(feePercent, stakePercent); err != nil {
		return PaymentSplit{}, err
	}

	fee := percentOf(price, feePercent)
	stake := percentOf(price, stakePercent)
	return PaymentSplit{
		Fee:            fee,
		Stake:          stake,
		OrganizerShare: price.Sub(fee).Sub(stake),
	}, nil
}

func percentOf(price decimal.Decimal, percent int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Truncate(Scale)
}

// ParseAmount parses a decimal amount and validates it as a price
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.WrapError(apperrors.KindInvalidPrice, err, "cannot parse amount %q", s)
	}
	if err := ValidatePrice(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// Multiply returns price * n
func Multiply(price decimal.Decimal, n int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(n)))
}
