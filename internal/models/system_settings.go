package models

import (
	"time"
)

// PlatformSettings holds platform-wide ledger configuration
type PlatformSettings struct {
	FeeAccount string    `json:"feeAccount"` // recipient of the platform fee share
	UpdatedAt  time.Time `json:"updatedAt"`
	UpdatedBy  string    `json:"updatedBy"`
}

// UpdateFeeAccountRequest is the body of PUT /admin/settings/fee-account
type UpdateFeeAccountRequest struct {
	FeeAccount string `json:"feeAccount" binding:"required"`
}
