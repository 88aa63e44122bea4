package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := NewError(KindRaffleSoldOut, "raffle %s is sold out", "r-1")

	assert.ErrorIs(t, err, ErrRaffleSoldOut)
	assert.NotErrorIs(t, err, ErrRaffleNotActive)
	assert.Equal(t, "RaffleSoldOut: raffle r-1 is sold out", err.Error())
}

func TestWrapError_KeepsCause(t *testing.T) {
	cause := NewError(KindInvalidPrice, "price must be positive")
	err := WrapError(KindInvalidRaffleSpec, cause, "invalid raffle")

	assert.ErrorIs(t, err, ErrInvalidRaffleSpec)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.Equal(t, KindInvalidRaffleSpec, KindOf(err))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("lookup: %w", NewError(KindNotFound, "gone"))))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestError_Messages(t *testing.T) {
	assert.Equal(t, "NoPrize", (&Error{Kind: KindNoPrize}).Error())
	assert.Equal(t, "NotFound: boom", (&Error{Kind: KindNotFound, Err: errors.New("boom")}).Error())
}
