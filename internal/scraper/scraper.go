// Package scraper imports the season schedule from the MLB Stats API
// and normalizes it into model.Game rows for upserting. It is a pure
// fetch/normalize step: persistence and ticket generation belong to
// the callers.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jdrivas/gtm/internal/model"
)

const defaultBaseURL = "https://statsapi.mlb.com/api/v1/schedule"

// Client fetches schedules. BaseURL is overridable for tests.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a Client with a bounded request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// Stats API response shapes. Only the fields the importer consumes are
// declared; the API sends much more.

type scheduleResponse struct {
	Dates []dateEntry `json:"dates"`
}

type dateEntry struct {
	Games []apiGame `json:"games"`
}

type apiGame struct {
	GamePk       int64          `json:"gamePk"`
	GameGUID     *string        `json:"gameGuid"`
	GameType     string         `json:"gameType"`
	Season       string         `json:"season"`
	GameDate     string         `json:"gameDate"`
	OfficialDate string         `json:"officialDate"`
	Status       gameStatus     `json:"status"`
	Teams        teams          `json:"teams"`
	Venue        venue          `json:"venue"`
	DayNight     *string        `json:"dayNight"`
	Promotions   []apiPromotion `json:"promotions"`
}

type apiPromotion struct {
	OfferID      int64   `json:"offerId"`
	Name         string  `json:"name"`
	OfferType    *string `json:"offerType"`
	Description  *string `json:"description"`
	Distribution *string `json:"distribution"`
	PresentedBy  *string `json:"presentedBy"`
	AltPageURL   *string `json:"altPageUrl"`
	TicketLink   *string `json:"ticketLink"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	ImageURL     *string `json:"imageUrl"`
	DisplayOrder int64   `json:"displayOrder"`
}

type gameStatus struct {
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState"`
	StatusCode        string `json:"statusCode"`
	StartTimeTBD      *bool  `json:"startTimeTBD"`
}

type teams struct {
	Away teamSide `json:"away"`
	Home teamSide `json:"home"`
}

type teamSide struct {
	Team teamInfo `json:"team"`
}

type teamInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type venue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (g apiGame) toModel() model.Game {
	tbd := false
	if g.Status.StartTimeTBD != nil {
		tbd = *g.Status.StartTimeTBD
	}
	return model.Game{
		GamePk:         g.GamePk,
		GameGUID:       g.GameGUID,
		GameType:       g.GameType,
		Season:         g.Season,
		GameDate:       g.GameDate,
		OfficialDate:   g.OfficialDate,
		StatusAbstract: g.Status.AbstractGameState,
		StatusDetailed: g.Status.DetailedState,
		StatusCode:     g.Status.StatusCode,
		StartTimeTBD:   tbd,
		AwayTeamID:     g.Teams.Away.Team.ID,
		AwayTeamName:   g.Teams.Away.Team.Name,
		HomeTeamID:     g.Teams.Home.Team.ID,
		HomeTeamName:   g.Teams.Home.Team.Name,
		VenueID:        g.Venue.ID,
		VenueName:      g.Venue.Name,
		DayNight:       g.DayNight,
	}
}

func (p apiPromotion) toModel(gamePk int64) model.Promotion {
	return model.Promotion{
		OfferID:      p.OfferID,
		GamePk:       gamePk,
		Name:         p.Name,
		OfferType:    p.OfferType,
		Description:  p.Description,
		Distribution: p.Distribution,
		PresentedBy:  p.PresentedBy,
		AltPageURL:   p.AltPageURL,
		TicketLink:   p.TicketLink,
		ThumbnailURL: p.ThumbnailURL,
		ImageURL:     p.ImageURL,
		DisplayOrder: p.DisplayOrder,
	}
}

// Schedule is one normalized import: the season's games plus every
// promotion the API attached to them.
type Schedule struct {
	Games      []model.Game
	Promotions []model.Promotion
}

// FetchSchedule pulls the regular-season schedule for one team and
// season and returns the normalized games and promotions. Promotions
// ride along via the schedule's promotions hydration.
func (c *Client) FetchSchedule(ctx context.Context, teamID int64, season int) (*Schedule, error) {
	url := fmt.Sprintf("%s?teamId=%d&season=%d&sportId=1&gameType=R&hydrate=game(promotions)",
		c.baseURL, teamID, season)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schedule fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("schedule fetch: unexpected status %s", resp.Status)
	}

	var sched scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&sched); err != nil {
		return nil, fmt.Errorf("schedule decode: %w", err)
	}

	var result Schedule
	for _, d := range sched.Dates {
		for _, g := range d.Games {
			result.Games = append(result.Games, g.toModel())
			for _, p := range g.Promotions {
				result.Promotions = append(result.Promotions, p.toModel(g.GamePk))
			}
		}
	}
	log.Printf("scraper: fetched %d games, %d promotions for %d season",
		len(result.Games), len(result.Promotions), season)
	return &result, nil
}
