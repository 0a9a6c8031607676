package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"valtech/internal/http/handlers"
	"valtech/internal/metrics"
	"valtech/internal/middleware"
)

// RateLimitPolicy caps requests per client address.
type RateLimitPolicy struct {
	Limit  int
	Window time.Duration
}

var (
	ReferralApplyPolicy = RateLimitPolicy{Limit: 9, Window: 6 * time.Hour}
	UserLookupPolicy    = RateLimitPolicy{Limit: 10, Window: time.Minute}
)

type Deps struct {
	App     *handlers.App
	Limits  middleware.WindowStore
	Country middleware.CountryLookup
	Logger  zerolog.Logger

	// CORSOrigins may read the JSON user endpoint from a browser.
	CORSOrigins []string
}

func NewRouter(d Deps) http.Handler {
	limits := d.Limits
	if limits == nil {
		limits = middleware.NewMemoryWindowStore()
	}
	app := d.App

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.Recoverer,
		middleware.Country(d.Country),
		middleware.Logger(d.Logger),
		metrics.InstrumentHandler,
	)

	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Pages
	r.Get("/", app.Page("index.html"))
	r.Head("/", app.Page("index.html"))
	r.Get("/TermsOfService", app.Page("TOS.html"))
	r.Get("/PrivacyPolicy", app.Page("PP.html"))
	r.Get("/CancellationRefundPolicy", app.Page("CRP.html"))
	r.Get("/referral", app.ReferralForm)
	r.Get("/favicon.ico", app.Favicon)
	r.Handle("/static/*", app.Static())
	r.Get("/discord", app.Discord)

	// Downloads
	r.Get("/download", app.DownloadLatest)
	r.Get("/download/{version}", app.DownloadVersion)

	r.With(middleware.RateLimit(limits, "referral_apply", ReferralApplyPolicy.Limit, ReferralApplyPolicy.Window, d.Logger)).
		Get("/referralApply", app.ReferralApply)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS(d.CORSOrigins))
		r.Options("/user/{user_id}", func(http.ResponseWriter, *http.Request) {})
		r.With(middleware.RateLimit(limits, "user_lookup", UserLookupPolicy.Limit, UserLookupPolicy.Window, d.Logger)).
			Get("/user/{user_id}", app.GetUser)
	})

	return r
}
