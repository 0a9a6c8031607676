package domain

// AuthToken is a third-party credential pair kept fresh by the token refresher.
// ID is a stable surrogate key; Token changes on every refresh.
type AuthToken struct {
	ID           string
	Token        string
	RefreshToken string
	Valid        bool
	ExpiresIn    int64
}
