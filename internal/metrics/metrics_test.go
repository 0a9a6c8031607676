package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/user/{user_id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/user/{user_id}", "404"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/abc", nil))
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/user/{user_id}", "404"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, before+1, after)
}

func TestHandlerExposesDomainCounters(t *testing.T) {
	ReferralRedemptions.WithLabelValues("success").Inc()
	RecordJobRun("referral-sweep", true, 2*time.Millisecond)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	require.True(t, strings.Contains(text, "valtech_referral_redemptions_total"))
	require.True(t, strings.Contains(text, `valtech_jobs_runs_total{success="true",task="referral-sweep"}`))
}
