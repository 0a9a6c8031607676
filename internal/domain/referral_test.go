package domain

import (
	"testing"
	"time"
)

func TestReferralTokenExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	if (ReferralToken{ExpiresIn: now.Unix() + 1}).Expired(now) {
		t.Fatal("token expiring in the future reported as expired")
	}
	if !(ReferralToken{ExpiresIn: now.Unix()}).Expired(now) {
		t.Fatal("token expiring now must be expired, matching the sweeper's expires_in <= now")
	}
}

func TestUserPremiumActive(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	if (User{Premium: false, PremiumTill: now.Unix() + 100}).PremiumActive(now) {
		t.Fatal("non-premium user reported active")
	}
	if !(User{Premium: true, PremiumTill: now.Unix() + 100}).PremiumActive(now) {
		t.Fatal("premium user inside window reported inactive")
	}
	if (User{Premium: true, PremiumTill: now.Unix() - 1}).PremiumActive(now) {
		t.Fatal("premium user past window reported active")
	}
}
