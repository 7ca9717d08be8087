package event

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest() (*Handler, *RepositoryStub) {
	service, repo, _ := setupService()
	return NewHandler(service), repo
}

func TestHandler_GetEvents_InvalidDates(t *testing.T) {
	testCases := []struct {
		name    string
		query   string
		message string
	}{
		{name: "invalid from", query: "from=invalid&to=2024-03-02T00:00:00Z", message: "Invalid from (date) format"},
		{name: "invalid to", query: "from=2024-03-01T00:00:00Z&to=invalid", message: "Invalid to (date) format"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler, _ := setupHandlerTest()
			req := httptest.NewRequest(http.MethodGet, "/api/events?"+tc.query, nil)
			w := httptest.NewRecorder()

			// when
			handler.GetEvents(w, req)

			// then
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var errResponse struct {
				Error   string `json:"error"`
				Details string `json:"details"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
			assert.Equal(t, tc.message, errResponse.Error)
			assert.Contains(t, errResponse.Details, "RFC3339")
		})
	}
}

func TestHandler_CreateAndFetch(t *testing.T) {
	// given
	handler, _ := setupHandlerTest()
	end := time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)
	body, err := json.Marshal(EventDTO{
		Title:    "All Hands",
		StartsAt: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		EndsAt:   &end,
		Type:     string(CompanyEvent),
		Owner:    ParticipantDTO{Id: "p-1", Name: "Alexey Primechaev"},
	})
	require.NoError(t, err)

	// when
	w := httptest.NewRecorder()
	handler.CreateEvent(w, httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(body)))

	// then
	require.Equal(t, http.StatusCreated, w.Code)
	var created EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, "local", created.Source.Provider)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/events/"+created.Id, nil), map[string]string{"eventId": created.Id})
	w = httptest.NewRecorder()
	handler.GetEvent(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&fetched))
	assert.Equal(t, "All Hands", fetched.Title)

	w = httptest.NewRecorder()
	handler.GetEvents(w, httptest.NewRequest(http.MethodGet, "/api/events?from=2024-03-04T00:00:00Z&to=2024-03-05T00:00:00Z", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var listed []EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	assert.Len(t, listed, 1)
}

func TestHandler_CreateFromDraft_ValidationProblems(t *testing.T) {
	// given
	handler, _ := setupHandlerTest()
	body := `{"type":"company-event","startDate":"2024-03-04"}`

	// when
	w := httptest.NewRecorder()
	handler.CreateFromDraft(w, httptest.NewRequest(http.MethodPost, "/api/events/draft", bytes.NewBufferString(body)))

	// then
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response validationErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, []string{"Title is required."}, response.Problems)
}

func TestHandler_DeleteEvent_NotFound(t *testing.T) {
	handler, _ := setupHandlerTest()
	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/events/missing", nil), map[string]string{"eventId": "missing"})
	w := httptest.NewRecorder()

	handler.DeleteEvent(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_InvalidBody(t *testing.T) {
	handler, _ := setupHandlerTest()
	w := httptest.NewRecorder()

	handler.CreateEvent(w, httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString("{")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
