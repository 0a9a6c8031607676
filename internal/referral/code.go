package referral

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"valtech/internal/domain"
)

const codeLength = 12

// NewCode returns a random upper-case referral code.
func NewCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:codeLength])
}

// Mint builds a token granting duration that can be redeemed until now+ttl.
func Mint(now time.Time, duration, ttl time.Duration) (domain.ReferralToken, error) {
	if duration < time.Second {
		return domain.ReferralToken{}, fmt.Errorf("duration must be at least one second")
	}
	if ttl < time.Second {
		return domain.ReferralToken{}, fmt.Errorf("ttl must be at least one second")
	}
	return domain.ReferralToken{
		Token:     NewCode(),
		Duration:  int64(duration / time.Second),
		ExpiresIn: now.Add(ttl).Unix(),
	}, nil
}
