package model

// TicketSummaryRow is the per-home-game inventory aggregate.
// TotalRequested counts seats_requested over pending requests only;
// approved and withdrawn requests no longer represent demand.
type TicketSummaryRow struct {
	GamePk         int64  `json:"game_pk"`
	OfficialDate   string `json:"official_date"`
	AwayTeamName   string `json:"away_team_name"`
	TotalSeats     int64  `json:"total_seats"`
	Assigned       int64  `json:"assigned"`
	Available      int64  `json:"available"`
	TotalRequested int64  `json:"total_requested"`
}
