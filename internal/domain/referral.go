package domain

import "time"

// ReferralToken is a single-use code granting Duration seconds of premium.
type ReferralToken struct {
	Token     string
	Duration  int64 // seconds to grant
	ExpiresIn int64 // absolute epoch seconds
}

// Expired reports whether the token can no longer be redeemed at now.
func (t ReferralToken) Expired(now time.Time) bool {
	return now.Unix() >= t.ExpiresIn
}

// Grant is the outcome of applying a referral token to a user.
type Grant struct {
	UserID      string
	Token       string
	Duration    int64
	PremiumTill int64
}
