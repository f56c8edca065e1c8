package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema idempotently at startup. Statements are
// plain CREATE TABLE IF NOT EXISTS so a restart against an existing
// database is a no-op. Every table carries created_at/updated_at
// maintained by the database on each mutating write.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			game_pk         BIGINT PRIMARY KEY,
			game_guid       VARCHAR(64) NULL,
			game_type       VARCHAR(8) NOT NULL,
			season          VARCHAR(8) NOT NULL,
			game_date       VARCHAR(32) NOT NULL,
			official_date   VARCHAR(16) NOT NULL,
			status_abstract VARCHAR(32) NOT NULL,
			status_detailed VARCHAR(64) NOT NULL,
			status_code     VARCHAR(8) NOT NULL,
			start_time_tbd  BOOLEAN NOT NULL DEFAULT FALSE,
			away_team_id    BIGINT NOT NULL,
			away_team_name  VARCHAR(128) NOT NULL,
			home_team_id    BIGINT NOT NULL,
			home_team_name  VARCHAR(128) NOT NULL,
			venue_id        BIGINT NOT NULL,
			venue_name      VARCHAR(128) NOT NULL,
			day_night       VARCHAR(8) NULL,
			created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS promotions (
			offer_id      BIGINT NOT NULL,
			game_pk       BIGINT NOT NULL,
			name          VARCHAR(255) NOT NULL,
			offer_type    VARCHAR(64) NULL,
			description   TEXT NULL,
			distribution  VARCHAR(128) NULL,
			presented_by  VARCHAR(255) NULL,
			alt_page_url  VARCHAR(512) NULL,
			ticket_link   VARCHAR(512) NULL,
			thumbnail_url VARCHAR(512) NULL,
			image_url     VARCHAR(512) NULL,
			display_order BIGINT NOT NULL DEFAULT 0,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (game_pk, offer_id),
			CONSTRAINT fk_promotions_game FOREIGN KEY (game_pk) REFERENCES games(game_pk)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS seats (
			id          BIGINT AUTO_INCREMENT PRIMARY KEY,
			section     VARCHAR(16) NOT NULL,
			row_label   VARCHAR(16) NOT NULL,
			seat_number VARCHAR(16) NOT NULL,
			notes       TEXT NULL,
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_seats_position (section, row_label, seat_number)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS users (
			id         BIGINT AUTO_INCREMENT PRIMARY KEY,
			subject    VARCHAR(191) NOT NULL,
			email      VARCHAR(191) NOT NULL,
			name       VARCHAR(191) NOT NULL,
			role       ENUM('member','admin') NOT NULL DEFAULT 'member',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_users_subject (subject)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS game_tickets (
			id          BIGINT AUTO_INCREMENT PRIMARY KEY,
			game_pk     BIGINT NOT NULL,
			seat_id     BIGINT NOT NULL,
			status      ENUM('available','assigned') NOT NULL DEFAULT 'available',
			assigned_to BIGINT NULL,
			notes       TEXT NULL,
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_game_tickets_seat_game (seat_id, game_pk),
			KEY idx_game_tickets_game (game_pk),
			KEY idx_game_tickets_assigned (assigned_to),
			CONSTRAINT fk_game_tickets_seat FOREIGN KEY (seat_id) REFERENCES seats(id),
			CONSTRAINT fk_game_tickets_game FOREIGN KEY (game_pk) REFERENCES games(game_pk),
			CONSTRAINT fk_game_tickets_user FOREIGN KEY (assigned_to) REFERENCES users(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS ticket_requests (
			id              BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id         BIGINT NOT NULL,
			game_pk         BIGINT NOT NULL,
			seats_requested BIGINT NOT NULL,
			seats_approved  BIGINT NOT NULL DEFAULT 0,
			status          ENUM('pending','approved','withdrawn') NOT NULL DEFAULT 'pending',
			notes           TEXT NULL,
			created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_ticket_requests_user_game (user_id, game_pk),
			KEY idx_ticket_requests_game (game_pk),
			CONSTRAINT fk_ticket_requests_user FOREIGN KEY (user_id) REFERENCES users(id),
			CONSTRAINT fk_ticket_requests_game FOREIGN KEY (game_pk) REFERENCES games(game_pk)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
