package domain

import "time"

// User is a row of userhwids. Users are created outside this service.
type User struct {
	ID          string
	QuotaUsed   int
	Premium     bool
	PremiumTill int64 // epoch seconds, meaningful only while Premium is true
}

// PremiumActive reports whether the premium window covers now.
func (u User) PremiumActive(now time.Time) bool {
	return u.Premium && now.Unix() <= u.PremiumTill
}
