package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrMissingParameters     = errors.New("missing parameters")
	ErrInvalidReferralCode   = errors.New("invalid referral code")
	ErrInvalidUser           = errors.New("invalid user")
	ErrUpstreamRefreshFailed = errors.New("upstream refresh failed")
	ErrTransport             = errors.New("transport error")
)
