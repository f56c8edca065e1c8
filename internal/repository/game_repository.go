package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jdrivas/gtm/internal/model"
)

const gameColumns = `game_pk, game_guid, game_type, season, game_date, official_date,
	status_abstract, status_detailed, status_code, start_time_tbd,
	away_team_id, away_team_name, home_team_id, home_team_name,
	venue_id, venue_name, day_night, created_at, updated_at`

// GameRepo provides access to the games table. Games come from the
// schedule importer and are upserted by their external game_pk; the
// core never deletes them.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo constructs a GameRepo with the given DB handle.
func NewGameRepo(db *sql.DB) *GameRepo { return &GameRepo{db: db} }

// Upsert inserts a game or, when the game_pk already exists, refreshes
// the mutable fields (dates, status, teams' state). Safe to call
// repeatedly across schedule imports.
func (r *GameRepo) Upsert(ctx context.Context, g *model.Game) error {
	const q = `INSERT INTO games (game_pk, game_guid, game_type, season, game_date, official_date,
	             status_abstract, status_detailed, status_code, start_time_tbd,
	             away_team_id, away_team_name, home_team_id, home_team_name,
	             venue_id, venue_name, day_night)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             game_guid = VALUES(game_guid),
	             game_date = VALUES(game_date),
	             official_date = VALUES(official_date),
	             status_abstract = VALUES(status_abstract),
	             status_detailed = VALUES(status_detailed),
	             status_code = VALUES(status_code),
	             start_time_tbd = VALUES(start_time_tbd),
	             day_night = VALUES(day_night),
	             updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q,
		g.GamePk, g.GameGUID, g.GameType, g.Season, g.GameDate, g.OfficialDate,
		g.StatusAbstract, g.StatusDetailed, g.StatusCode, g.StartTimeTBD,
		g.AwayTeamID, g.AwayTeamName, g.HomeTeamID, g.HomeTeamName,
		g.VenueID, g.VenueName, g.DayNight)
	return err
}

// List returns games ordered by date. When month is 1-12, only games
// whose official date falls in that month are returned.
func (r *GameRepo) List(ctx context.Context, month int) ([]model.Game, error) {
	q := fmt.Sprintf(`SELECT %s FROM games ORDER BY game_date`, gameColumns)
	var args []any
	if month >= 1 && month <= 12 {
		q = fmt.Sprintf(`SELECT %s FROM games WHERE official_date LIKE ? ORDER BY game_date`, gameColumns)
		args = append(args, fmt.Sprintf("%%-%02d-%%", month))
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		if err := scanGame(rows, &g); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// GetByPk retrieves one game by its external key. Returns
// ErrGameNotFound when absent.
func (r *GameRepo) GetByPk(ctx context.Context, gamePk int64) (*model.Game, error) {
	q := fmt.Sprintf(`SELECT %s FROM games WHERE game_pk = ?`, gameColumns)
	var g model.Game
	err := r.db.QueryRowContext(ctx, q, gamePk).Scan(
		&g.GamePk, &g.GameGUID, &g.GameType, &g.Season, &g.GameDate, &g.OfficialDate,
		&g.StatusAbstract, &g.StatusDetailed, &g.StatusCode, &g.StartTimeTBD,
		&g.AwayTeamID, &g.AwayTeamName, &g.HomeTeamID, &g.HomeTeamName,
		&g.VenueID, &g.VenueName, &g.DayNight, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func scanGame(rows *sql.Rows, g *model.Game) error {
	return rows.Scan(
		&g.GamePk, &g.GameGUID, &g.GameType, &g.Season, &g.GameDate, &g.OfficialDate,
		&g.StatusAbstract, &g.StatusDetailed, &g.StatusCode, &g.StartTimeTBD,
		&g.AwayTeamID, &g.AwayTeamName, &g.HomeTeamID, &g.HomeTeamName,
		&g.VenueID, &g.VenueName, &g.DayNight, &g.CreatedAt, &g.UpdatedAt)
}
