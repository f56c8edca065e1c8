package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// Validation paths reject before any store access, so a zero Handler
// is enough to drive them.

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	require.NoError(t, h(c))
	return rec
}

func TestCreateMyRequestsRejectsSeatCountOutOfRange(t *testing.T) {
	h := &Handler{}
	for _, body := range []string{
		`{"requests": [{"game_pk": 100, "seats_requested": 0}]}`,
		`{"requests": [{"game_pk": 100, "seats_requested": 5}]}`,
		`{"requests": [{"game_pk": 1, "seats_requested": 2}, {"game_pk": 2, "seats_requested": 9}]}`,
	} {
		rec := doJSON(t, h.CreateMyRequests, http.MethodPost, "/api/my/requests", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestCreateMyRequestsNamesOffendingGame(t *testing.T) {
	h := &Handler{}
	body := `{"requests": [{"game_pk": 100, "seats_requested": 2}, {"game_pk": 200, "seats_requested": 7}]}`
	rec := doJSON(t, h.CreateMyRequests, http.MethodPost, "/api/my/requests", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "200", "error should name the offending game_pk")
}

func TestCreateMyRequestsRejectsEmptyBatch(t *testing.T) {
	h := &Handler{}
	for _, body := range []string{`{"requests": []}`, `{}`} {
		rec := doJSON(t, h.CreateMyRequests, http.MethodPost, "/api/my/requests", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestAllocateRejectsEmptyBatch(t *testing.T) {
	h := &Handler{}
	for _, body := range []string{`{"assignments": []}`, `{}`} {
		rec := doJSON(t, h.Allocate, http.MethodPost, "/api/admin/allocate", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestAllocateRejectsMalformedBody(t *testing.T) {
	h := &Handler{}
	rec := doJSON(t, h.Allocate, http.MethodPost, "/api/admin/allocate", `{"assignments": "nope"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddSeatBatchRejectsInvertedRange(t *testing.T) {
	h := &Handler{}
	body := `{"section": "135", "row": "11", "seat_start": 10, "seat_end": 3}`
	rec := doJSON(t, h.AddSeatBatch, http.MethodPost, "/api/seats/batch", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "seat_start")
}

func TestAddSeatBatchRejectsOversizedRange(t *testing.T) {
	h := &Handler{}
	body := `{"section": "135", "row": "11", "seat_start": 1, "seat_end": 50}`
	rec := doJSON(t, h.AddSeatBatch, http.MethodPost, "/api/seats/batch", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddSeatBatchRequiresSectionAndRow(t *testing.T) {
	h := &Handler{}
	body := `{"section": "", "row": "11", "seat_start": 1, "seat_end": 4}`
	rec := doJSON(t, h.AddSeatBatch, http.MethodPost, "/api/seats/batch", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMyRequestRejectsBadID(t *testing.T) {
	h := &Handler{}
	rec := doJSON(t, h.UpdateMyRequest, http.MethodPatch, "/api/my/requests/abc",
		`{"seats_requested": 2}`, "id", "abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListGamesRejectsBadMonth(t *testing.T) {
	h := &Handler{}
	for _, q := range []string{"month=0", "month=13", "month=x"} {
		rec := doJSON(t, h.ListGames, http.MethodGet, "/api/games?"+q, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestScrapeScheduleRejectsBadSeason(t *testing.T) {
	h := &Handler{}
	rec := doJSON(t, h.ScrapeSchedule, http.MethodPost, "/api/admin/scrape-schedule?season=199", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
