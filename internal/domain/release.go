package domain

// Release maps a client version to its download URL.
type Release struct {
	Version float64
	URL     string
}
