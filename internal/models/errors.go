package models

import (
	"errors"
	"fmt"
)

// ErrMissingCampaignID is returned by the redirect builder when the matched
// lead carries no camp_id: no outbound URL can be formed without one.
var ErrMissingCampaignID = errors.New("camp_id is missing in lead data")

// MissingFieldError marks a request that lacks a required query parameter.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
