package firebase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"valtech/internal/domain"
)

func TestFetchAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"apiKey":"AIza-test","authDomain":"x.firebaseapp.com"}`))
	}))
	defer srv.Close()

	c := NewClient(Options{InitURL: srv.URL})
	key, err := c.FetchAPIKey(context.Background())
	if err != nil {
		t.Fatalf("FetchAPIKey error: %v", err)
	}
	if key != "AIza-test" {
		t.Fatalf("key = %q", key)
	}
}

func TestFetchAPIKeyNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(Options{InitURL: srv.URL}).FetchAPIKey(context.Background())
	if !errors.Is(err, ErrAPIKeyUnavailable) {
		t.Fatalf("expected ErrAPIKeyUnavailable, got %v", err)
	}
}

func TestRefreshTokenPostsFormAndParsesResponse(t *testing.T) {
	var gotKey, gotGrant, gotRefresh, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		gotKey = r.URL.Query().Get("key")
		gotType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		gotGrant = r.PostForm.Get("grant_type")
		gotRefresh = r.PostForm.Get("refresh_token")
		_, _ = w.Write([]byte(`{"access_token":"new-access","expires_in":"3600","refresh_token":"rotated"}`))
	}))
	defer srv.Close()

	now := time.Unix(1_700_000_000, 0)
	c := NewClient(Options{TokenURL: srv.URL, Now: func() time.Time { return now }})
	tok, err := c.RefreshToken(context.Background(), "AIza-test", "old-refresh")
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if gotKey != "AIza-test" || gotGrant != "refresh_token" || gotRefresh != "old-refresh" {
		t.Fatalf("unexpected request key=%q grant=%q refresh=%q", gotKey, gotGrant, gotRefresh)
	}
	if gotType != "application/x-www-form-urlencoded" {
		t.Fatalf("content type = %q", gotType)
	}
	if tok.AccessToken != "new-access" || tok.RefreshToken != "rotated" || tok.ExpiresAt != now.Unix()+3600 {
		t.Fatalf("unexpected token: %+v", tok)
	}
}

func TestRefreshTokenKeepsRefreshTokenWhenNotRotated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"a","expires_in":60}`))
	}))
	defer srv.Close()

	tok, err := NewClient(Options{TokenURL: srv.URL}).RefreshToken(context.Background(), "k", "keep-me")
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if tok.RefreshToken != "keep-me" {
		t.Fatalf("refresh token = %q", tok.RefreshToken)
	}
}

func TestRefreshTokenUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"TOKEN_EXPIRED"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(Options{TokenURL: srv.URL}).RefreshToken(context.Background(), "k", "r")
	var upstream *UpstreamRefreshFailedError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamRefreshFailedError, got %v", err)
	}
	if upstream.Status != http.StatusBadRequest || upstream.Body != "TOKEN_EXPIRED" {
		t.Fatalf("unexpected error detail: %+v", upstream)
	}
	if !errors.Is(err, domain.ErrUpstreamRefreshFailed) {
		t.Fatal("expected error to unwrap to ErrUpstreamRefreshFailed")
	}
}
