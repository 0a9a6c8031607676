package firebase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"valtech/internal/domain"
	"valtech/internal/infra"
)

// ErrAPIKeyUnavailable indicates the init document could not be fetched or had no apiKey.
var ErrAPIKeyUnavailable = errors.New("firebase: api key unavailable")

// UpstreamRefreshFailedError reports a non-200 answer from the token endpoint.
type UpstreamRefreshFailedError struct {
	Status int
	Body   string
}

func (e *UpstreamRefreshFailedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("firebase: refresh failed with status %d", e.Status)
	}
	return fmt.Sprintf("firebase: refresh failed with status %d: %s", e.Status, e.Body)
}

func (e *UpstreamRefreshFailedError) Unwrap() error { return domain.ErrUpstreamRefreshFailed }

// Options configures the Firebase secure-token client.
type Options struct {
	InitURL        string
	TokenURL       string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
	Now            func() time.Time
}

// Client talks to the Firebase init document and secure-token endpoint.
type Client struct {
	initURL    string
	tokenURL   string
	httpClient *http.Client
	logger     *infra.Logger
	now        func() time.Time
}

// RefreshedToken is the normalized result of a refresh call.
type RefreshedToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // absolute epoch seconds
}

// NewClient constructs a client with defaults for anything unset.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	initURL := strings.TrimSpace(opts.InitURL)
	if initURL == "" {
		initURL = "https://speechifymobile.firebaseapp.com/__/firebase/init.json"
	}
	tokenURL := strings.TrimSpace(opts.TokenURL)
	if tokenURL == "" {
		tokenURL = "https://securetoken.googleapis.com/v1/token"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		l := zerolog.New(io.Discard)
		logger = &l
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		initURL:    initURL,
		tokenURL:   tokenURL,
		httpClient: httpClient,
		logger:     logger,
		now:        now,
	}
}

// FetchAPIKey reads apiKey from the public init document.
func (c *Client) FetchAPIKey(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.initURL, nil)
	if err != nil {
		return "", fmt.Errorf("firebase: build init request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPIKeyUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("firebase: read init response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrAPIKeyUnavailable, resp.StatusCode)
	}
	key := strings.TrimSpace(gjson.GetBytes(raw, "apiKey").String())
	if key == "" {
		return "", fmt.Errorf("%w: apiKey missing", ErrAPIKeyUnavailable)
	}
	return key, nil
}

// RefreshToken exchanges refreshToken for a new access token.
func (c *Client) RefreshToken(ctx context.Context, apiKey, refreshToken string) (*RefreshedToken, error) {
	endpoint, err := url.Parse(c.tokenURL)
	if err != nil {
		return nil, fmt.Errorf("firebase: invalid token url: %w", err)
	}
	q := endpoint.Query()
	q.Set("key", apiKey)
	endpoint.RawQuery = q.Encode()

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("firebase: build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firebase: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("firebase: read refresh response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamRefreshFailedError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(gjson.GetBytes(raw, "error.message").String()),
		}
	}

	parsed := gjson.ParseBytes(raw)
	access := parsed.Get("access_token").String()
	if access == "" {
		return nil, errors.New("firebase: response missing access_token")
	}
	// expires_in arrives as a numeric string; gjson Int handles both forms.
	ttl := parsed.Get("expires_in").Int()
	rotated := parsed.Get("refresh_token").String()
	if rotated == "" {
		rotated = refreshToken
	}

	c.logger.Debug().Int64("ttl_seconds", ttl).Msg("firebase: token refreshed")
	return &RefreshedToken{
		AccessToken:  access,
		RefreshToken: rotated,
		ExpiresAt:    c.now().Unix() + ttl,
	}, nil
}
