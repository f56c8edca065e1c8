package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const scheduleFixture = `{
  "dates": [
    {
      "games": [
        {
          "gamePk": 745001,
          "gameGuid": "abc-123",
          "gameType": "R",
          "season": "2026",
          "gameDate": "2026-04-01T20:05:00Z",
          "officialDate": "2026-04-01",
          "status": {"abstractGameState": "Preview", "detailedState": "Scheduled", "statusCode": "S", "startTimeTBD": false},
          "teams": {
            "away": {"team": {"id": 119, "name": "Los Angeles Dodgers"}},
            "home": {"team": {"id": 137, "name": "San Francisco Giants"}}
          },
          "venue": {"id": 2395, "name": "Oracle Park"},
          "dayNight": "night",
          "promotions": [
            {"offerId": 9001, "name": "Opening Day Scarf", "offerType": "Giveaway", "distribution": "First 20,000 fans", "displayOrder": 2},
            {"offerId": 9000, "name": "Fireworks Night", "offerType": "Theme", "presentedBy": "Local Sponsor", "displayOrder": 1}
          ]
        }
      ]
    },
    {
      "games": [
        {
          "gamePk": 745002,
          "gameType": "R",
          "season": "2026",
          "gameDate": "2026-04-02T02:05:00Z",
          "officialDate": "2026-04-02",
          "status": {"abstractGameState": "Preview", "detailedState": "Scheduled", "statusCode": "S", "startTimeTBD": true},
          "teams": {
            "away": {"team": {"id": 137, "name": "San Francisco Giants"}},
            "home": {"team": {"id": 119, "name": "Los Angeles Dodgers"}}
          },
          "venue": {"id": 22, "name": "Dodger Stadium"}
        }
      ]
    }
  ]
}`

func TestFetchScheduleNormalizesGames(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, scheduleFixture)
	}))
	defer srv.Close()

	sched, err := NewClientWithBaseURL(srv.URL).FetchSchedule(context.Background(), 137, 2026)
	require.NoError(t, err)
	require.Len(t, sched.Games, 2)
	require.Contains(t, gotQuery, "teamId=137")
	require.Contains(t, gotQuery, "season=2026")
	require.Contains(t, gotQuery, "hydrate=game(promotions)")

	home := sched.Games[0]
	require.Equal(t, int64(745001), home.GamePk)
	require.NotNil(t, home.GameGUID)
	require.Equal(t, "abc-123", *home.GameGUID)
	require.Equal(t, "2026-04-01", home.OfficialDate)
	require.Equal(t, int64(137), home.HomeTeamID)
	require.Equal(t, "Los Angeles Dodgers", home.AwayTeamName)
	require.Equal(t, "Oracle Park", home.VenueName)
	require.False(t, home.StartTimeTBD)
	require.True(t, home.IsHome(137))

	away := sched.Games[1]
	require.Nil(t, away.GameGUID)
	require.True(t, away.StartTimeTBD)
	require.False(t, away.IsHome(137))
}

func TestFetchScheduleCollectsPromotions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, scheduleFixture)
	}))
	defer srv.Close()

	sched, err := NewClientWithBaseURL(srv.URL).FetchSchedule(context.Background(), 137, 2026)
	require.NoError(t, err)
	require.Len(t, sched.Promotions, 2)

	scarf := sched.Promotions[0]
	require.Equal(t, int64(9001), scarf.OfferID)
	require.Equal(t, int64(745001), scarf.GamePk)
	require.Equal(t, "Opening Day Scarf", scarf.Name)
	require.NotNil(t, scarf.OfferType)
	require.Equal(t, "Giveaway", *scarf.OfferType)
	require.NotNil(t, scarf.Distribution)
	require.Equal(t, "First 20,000 fans", *scarf.Distribution)
	require.Nil(t, scarf.PresentedBy)
	require.Equal(t, int64(2), scarf.DisplayOrder)

	fireworks := sched.Promotions[1]
	require.Equal(t, int64(9000), fireworks.OfferID)
	require.Equal(t, int64(745001), fireworks.GamePk)
	require.NotNil(t, fireworks.PresentedBy)
	require.Equal(t, "Local Sponsor", *fireworks.PresentedBy)
}

func TestFetchScheduleBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClientWithBaseURL(srv.URL).FetchSchedule(context.Background(), 137, 2026)
	require.Error(t, err)
}

func TestFetchScheduleEmptySeason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"dates": []}`)
	}))
	defer srv.Close()

	sched, err := NewClientWithBaseURL(srv.URL).FetchSchedule(context.Background(), 137, 2026)
	require.NoError(t, err)
	require.Empty(t, sched.Games)
	require.Empty(t, sched.Promotions)
}
