package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodlink/internal/platform/config"
	"bloodlink/internal/platform/metrics"
	"bloodlink/pkg/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	for _, k := range []string{"DATABASE_URL", "REDIS_URL", "KAFKA_BROKERS", "BLOODLINK_ENV", "ADMIN_API_TOKEN", "BLOODLINK_CHATBOT_FILE"} {
		t.Setenv(k, "")
	}
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	cfg.Auth.BcryptCost = 4

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	in, err := openInfra(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { in.Close(context.Background()) })

	a, err := newApp(cfg, in, log, m)
	require.NoError(t, err)
	return newRouter(cfg, a, in, log, m)
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}))
	testutil.AssertStatusOK(t, rr)
	session := testutil.UnmarshalResponse[struct {
		AccessToken string          `json:"access_token"`
		ExpiresAt   json.RawMessage `json:"expires_at"`
	}](t, rr)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.ExpiresAt)
	return session.AccessToken
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRouterDonorFlow(t *testing.T) {
	router := newTestRouter(t)

	testutil.Given(t, "a registered donor", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/donors/register", map[string]string{
			"email":      "ana@example.com",
			"password":   "password1!",
			"full_name":  "Ana Rao",
			"phone":      "9876543210",
			"blood_type": "O+",
			"city":       "Pune",
		}))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		token := login(t, router, "ana@example.com", "password1!")

		testutil.When(t, "reading eligibility with no donation history", func(t *testing.T) {
			rr := testutil.DoRequest(router, bearer(testutil.NewRequest(t, http.MethodGet, "/donors/me/eligibility"), token))

			testutil.Then(t, "the donor is eligible", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "is_eligible", true)
			})
		})

		testutil.When(t, "calling an organization route", func(t *testing.T) {
			rr := testutil.DoRequest(router, bearer(testutil.NewRequest(t, http.MethodGet, "/donors/search?blood_type=O%2B"), token))

			testutil.Then(t, "the role is rejected", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusForbidden)
			})
		})

		testutil.When(t, "calling a donor route without a token", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/donors/me/eligibility"))

			testutil.Then(t, "the request is unauthorized", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusUnauthorized)
			})
		})
	})
}

func TestRouterSeekerCooldown(t *testing.T) {
	router := newTestRouter(t)
	body := map[string]any{
		"full_name":  "Ravi Kumar",
		"email":      "ravi@example.com",
		"phone":      "9000000001",
		"blood_type": "B+",
		"units":      2,
		"city":       "Pune",
	}

	testutil.Given(t, "an accepted seeker request", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/seekers", body))
		testutil.AssertStatus(t, rr, http.StatusCreated)

		testutil.When(t, "the same contact submits again at once", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/seekers", body))

			testutil.Then(t, "it is told to wait out the full window", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusTooManyRequests)
				assert.Equal(t, "30", rr.Header().Get("Retry-After"))
				assert.Equal(t, 30, testutil.UnmarshalErrorResponse(t, rr).RetryAfter)
			})

			testutil.And(t, "the submission list stays behind admin auth", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/admin/seekers"))
				testutil.AssertStatus(t, rr, http.StatusUnauthorized)
			})
		})
	})
}

func TestRouterPublicEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("healthz", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("chatbot", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/chatbot", map[string]string{"message": "hello there"}))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "intent", "greeting")
		testutil.AssertJSONContains(t, rr, "matched", true)
	})

	t.Run("active emergencies", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/emergencies"))
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("bootstrap hidden without admin secret", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/admin/bootstrap", map[string]string{
			"email":    "root@example.com",
			"password": "password1!",
		}))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}
