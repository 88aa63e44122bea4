package handlers

import (
	"net/http"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/ArowuTest/raffle-ledger-backend/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusByKind maps typed ledger failures onto HTTP status codes
var statusByKind = map[apperrors.ErrorKind]int{
	apperrors.KindInvalidRaffleSpec:    http.StatusBadRequest,
	apperrors.KindInvalidPercentage:    http.StatusBadRequest,
	apperrors.KindInvalidPrice:         http.StatusBadRequest,
	apperrors.KindInvalidInput:         http.StatusBadRequest,
	apperrors.KindInvalidCredentials:   http.StatusUnauthorized,
	apperrors.KindUnauthorized:         http.StatusForbidden,
	apperrors.KindNotFound:             http.StatusNotFound,
	apperrors.KindAccountExists:        http.StatusConflict,
	apperrors.KindRaffleNotActive:      http.StatusConflict,
	apperrors.KindRaffleSoldOut:        http.StatusConflict,
	apperrors.KindDuplicateParticipant: http.StatusConflict,
	apperrors.KindAlreadyClosed:        http.StatusConflict,
	apperrors.KindNoParticipants:       http.StatusConflict,
	apperrors.KindRaffleNotClosed:      http.StatusConflict,
	apperrors.KindNotWinner:            http.StatusConflict,
	apperrors.KindPrizeAlreadyClaimed:  http.StatusConflict,
	apperrors.KindNoPrize:              http.StatusConflict,
	apperrors.KindInvariantViolation:   http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for err
func StatusFor(err error) int {
	if status, ok := statusByKind[apperrors.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes the {"error","kind"} body for err
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := StatusFor(err)
	kind := apperrors.KindOf(err)
	message := err.Error()
	if kind == "" {
		// Infrastructure failure, do not leak driver details
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		kind = "Internal"
		message = "internal server error"
	}
	c.JSON(status, gin.H{"error": message, "kind": kind})
}

// respondBadRequest reports a malformed request body or parameter
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": apperrors.KindInvalidInput})
}
