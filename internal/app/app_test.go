package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/pkg/viewport"
)

func TestViewportSessionMiddleware(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected string
		found    bool
	}{
		{name: "with header", header: "session-1", expected: "session-1", found: true},
		{name: "without header"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var sessionId string
			var found bool
			r := mux.NewRouter()
			SetupMiddleware(r, &Dependencies{}, config.Defaults())
			r.HandleFunc("/api/events", func(w http.ResponseWriter, req *http.Request) {
				sessionId, found = viewport.SessionFromContext(req.Context())
				w.WriteHeader(http.StatusCreated)
			})
			req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
			if tc.header != "" {
				req.Header.Set(viewportSessionHeader, tc.header)
			}
			w := httptest.NewRecorder()

			// when
			r.ServeHTTP(w, req)

			// then
			assert.Equal(t, http.StatusCreated, w.Code)
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.expected, sessionId)
		})
	}
}

func TestNewJobs(t *testing.T) {
	t.Run("should register enabled jobs", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Ics.Feeds = []config.IcsFeed{{Id: "holidays", Url: "https://example.com/holidays.ics"}}
		cfg.Google.Enabled = true

		jobs, err := NewJobs(&Dependencies{}, cfg)

		require.NoError(t, err)
		assert.Len(t, jobs.cron.Entries(), 3)
	})

	t.Run("should only prune sessions by default", func(t *testing.T) {
		jobs, err := NewJobs(&Dependencies{}, config.Defaults())

		require.NoError(t, err)
		assert.Len(t, jobs.cron.Entries(), 1)
	})

	t.Run("should reject invalid schedule", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Ics.Feeds = []config.IcsFeed{{Id: "holidays", Url: "https://example.com/holidays.ics"}}
		cfg.Ics.Schedule = "whenever"

		_, err := NewJobs(&Dependencies{}, cfg)

		assert.ErrorContains(t, err, "invalid ICS schedule")
	})
}
