package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/internal/utils"
	"github.com/teamcal/teamcal/pkg/event"
	gcal "google.golang.org/api/calendar/v3"
)

func TestToEvent(t *testing.T) {
	t.Run("should convert timed event with people", func(t *testing.T) {
		// given
		item := &gcal.Event{
			Id:        "abc123",
			Summary:   " Design Review ",
			Location:  "Room 4",
			Start:     &gcal.EventDateTime{DateTime: "2024-03-04T10:00:00+01:00", TimeZone: "Europe/Warsaw"},
			End:       &gcal.EventDateTime{DateTime: "2024-03-04T11:30:00+01:00"},
			Organizer: &gcal.EventOrganizer{Email: "priya@warp.dev", DisplayName: "Priya Patel"},
			Attendees: []*gcal.EventAttendee{
				{Email: "priya@warp.dev", DisplayName: "Priya Patel"},
				{Email: "rahul@warp.dev"},
				{Email: "room-4@resource.calendar.google.com", Resource: true},
			},
		}

		// when
		e, ok, err := ToEvent(item, "primary", time.UTC)

		// then
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "google-abc123", e.Id)
		assert.Equal(t, "Design Review", e.Title)
		assert.Equal(t, event.CompanyEvent, e.Type)
		assert.True(t, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC).Equal(e.StartsAt))
		require.NotNil(t, e.EndsAt)
		assert.True(t, time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC).Equal(*e.EndsAt))
		assert.Equal(t, "Europe/Warsaw", e.TimeZone)
		assert.Equal(t, "Priya Patel", e.Owner.Name)
		assert.Equal(t, []event.Participant{{Id: "rahul@warp.dev", Name: "rahul@warp.dev", Email: "rahul@warp.dev", Role: event.Attendee}}, e.Attendees)
		assert.Equal(t, event.Source{Provider: event.ProviderGoogle, CalendarId: "primary", EventId: "abc123"}, e.Source)
	})

	t.Run("should convert out of office day to time off", func(t *testing.T) {
		item := &gcal.Event{
			Id:        "ooo",
			Summary:   "Vacation",
			EventType: "outOfOffice",
			Start:     &gcal.EventDateTime{Date: "2024-03-11"},
			End:       &gcal.EventDateTime{Date: "2024-03-14"},
		}

		e, ok, err := ToEvent(item, "primary", time.UTC)

		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, event.TimeOff, e.Type)
		assert.True(t, e.IsAllDay)
		assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), e.StartsAt)
		assert.Equal(t, time.Date(2024, 3, 13, 23, 59, 59, int(999*time.Millisecond), time.UTC), *e.EndsAt)
		assert.Equal(t, event.DefaultOwner, e.Owner)
	})

	t.Run("should name untitled events", func(t *testing.T) {
		e, ok, err := ToEvent(&gcal.Event{Id: "x", Start: &gcal.EventDateTime{DateTime: "2024-03-04T10:00:00Z"}}, "primary", time.UTC)

		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Busy", e.Title)
		assert.Nil(t, e.EndsAt)
	})

	t.Run("should skip cancelled and reject broken events", func(t *testing.T) {
		testCases := []struct {
			name      string
			item      *gcal.Event
			expectErr bool
		}{
			{name: "cancelled", item: &gcal.Event{Id: "c", Status: "cancelled"}},
			{name: "missing start", item: &gcal.Event{Id: "m"}, expectErr: true},
			{name: "invalid start", item: &gcal.Event{Id: "i", Start: &gcal.EventDateTime{DateTime: "yesterday"}}, expectErr: true},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, ok, err := ToEvent(tc.item, "primary", time.UTC)

				assert.False(t, ok)
				assert.Equal(t, tc.expectErr, err != nil)
			})
		}
	})
}

type sourceStub struct {
	events   []event.Event
	from, to time.Time
}

func (s *sourceStub) GetEvents(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	s.from, s.to = from, to
	return s.events, nil
}

func TestSyncer_Sync(t *testing.T) {
	// given
	now := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)
	clock := utils.NewMockClock(now)
	repo := event.NewRepositoryStub()
	events := event.NewService(repo, nil, nil, clock, time.UTC)
	item, _, err := ToEvent(&gcal.Event{Id: "abc", Summary: "Sync", Start: &gcal.EventDateTime{DateTime: "2024-03-06T10:00:00Z"}}, "primary", time.UTC)
	require.NoError(t, err)
	source := &sourceStub{events: []event.Event{item}}
	calendar := config.Calendar{Timezone: "UTC", WeeksBackward: 2, WeeksForward: 4}
	syncer := NewSyncer(func(ctx context.Context) (EventSource, error) { return source, nil }, events, clock, calendar)

	// when
	count, err := syncer.Sync(context.Background())

	// then
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC), source.from)
	assert.Equal(t, time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), source.to)
	stored, err := repo.GetEvent(context.Background(), "google-abc")
	require.NoError(t, err)
	assert.Equal(t, event.ProviderGoogle, stored.Source.Provider)
}

func TestSyncer_Sync_NotConnected(t *testing.T) {
	auth := NewAuth(config.Defaults())
	syncer := NewSyncer(CalendarSource(NewService(auth, time.UTC), "primary"), nil, utils.NewMockClock(time.Now()), config.Calendar{})

	_, err := syncer.Sync(context.Background())

	assert.ErrorIs(t, err, ErrUnauthenticated)

	w := httptest.NewRecorder()
	NewHandler(NewService(auth, time.UTC), syncer).Sync(w, httptest.NewRequest(http.MethodPost, "/api/integrations/google/sync", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuth(t *testing.T) {
	cfg := config.Defaults()
	cfg.Google.ClientId = "client-1"

	t.Run("should be connected with configured refresh token", func(t *testing.T) {
		withToken := cfg
		withToken.Google.RefreshToken = "refresh"

		assert.True(t, NewAuth(withToken).Authenticated())
		assert.False(t, NewAuth(cfg).Authenticated())
	})

	t.Run("should redirect to consent screen with offline access", func(t *testing.T) {
		// given
		auth := NewAuth(cfg)
		w := httptest.NewRecorder()

		// when
		auth.OAuthLogin(w, httptest.NewRequest(http.MethodGet, "/api/integrations/google/auth/login?finalUrl=http://localhost/settings", nil))

		// then
		require.Equal(t, http.StatusOK, w.Code)
		var redirect googleAuthRedirect
		require.NoError(t, json.NewDecoder(w.Body).Decode(&redirect))
		u, err := url.Parse(redirect.RedirectUrl)
		require.NoError(t, err)
		assert.Equal(t, "client-1", u.Query().Get("client_id"))
		assert.Equal(t, "offline", u.Query().Get("access_type"))
		assert.Equal(t, "http://localhost:8181/api/integrations/google/auth/callback", u.Query().Get("redirect_uri"))
		assert.NotEmpty(t, u.Query().Get("state"))
	})

	t.Run("should reject unknown state", func(t *testing.T) {
		auth := NewAuth(cfg)
		w := httptest.NewRecorder()

		auth.OAuthCallback(w, httptest.NewRequest(http.MethodGet, "/api/integrations/google/auth/callback?code=x&state=forged", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should disconnect on logout", func(t *testing.T) {
		withToken := cfg
		withToken.Google.RefreshToken = "refresh"
		auth := NewAuth(withToken)
		w := httptest.NewRecorder()

		auth.OAuthLogout(w, httptest.NewRequest(http.MethodDelete, "/api/integrations/google/auth", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.False(t, auth.Authenticated())
		_, err := auth.TokenSource(context.Background())
		assert.True(t, errors.Is(err, ErrUnauthenticated))
	})
}
