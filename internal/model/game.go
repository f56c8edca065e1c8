package model

import "time"

// Game describes one scheduled contest as imported from the MLB Stats
// API. Games are keyed by the league-wide GamePk and upserted on every
// schedule import; the core never deletes a game.
//
// Fields mirror the `games` table:
//  GamePk         – external primary key from the Stats API.
//  GameGUID       – optional GUID assigned by the API.
//  GameType       – "R" for regular season and so on.
//  Season         – season year as a string (API convention).
//  GameDate       – full timestamp of first pitch (RFC3339 from API).
//  OfficialDate   – calendar date of the game (YYYY-MM-DD).
//  StatusAbstract – coarse status ("Preview", "Live", "Final").
//  StatusDetailed – human readable status ("Scheduled", "Postponed"...).
//  StatusCode     – short status code from the API.
//  StartTimeTBD   – true when the start time is not yet fixed.
//  HomeTeamID/HomeTeamName, AwayTeamID/AwayTeamName – participants.
//  VenueID/VenueName – where the game is played.
//  DayNight       – "day" or "night" when known.
type Game struct {
	GamePk         int64     `json:"game_pk"`
	GameGUID       *string   `json:"game_guid,omitempty"`
	GameType       string    `json:"game_type"`
	Season         string    `json:"season"`
	GameDate       string    `json:"game_date"`
	OfficialDate   string    `json:"official_date"`
	StatusAbstract string    `json:"status_abstract"`
	StatusDetailed string    `json:"status_detailed"`
	StatusCode     string    `json:"status_code"`
	StartTimeTBD   bool      `json:"start_time_tbd"`
	AwayTeamID     int64     `json:"away_team_id"`
	AwayTeamName   string    `json:"away_team_name"`
	HomeTeamID     int64     `json:"home_team_id"`
	HomeTeamName   string    `json:"home_team_name"`
	VenueID        int64     `json:"venue_id"`
	VenueName      string    `json:"venue_name"`
	DayNight       *string   `json:"day_night,omitempty"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// IsHome reports whether the managed team hosts this game. Only home
// games generate ticket inventory.
func (g *Game) IsHome(teamID int64) bool {
	return g.HomeTeamID == teamID
}
