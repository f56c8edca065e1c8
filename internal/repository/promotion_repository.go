package repository

import (
	"context"
	"database/sql"

	"github.com/jdrivas/gtm/internal/model"
)

// PromotionRepo provides access to the promotions table. Promotions
// arrive with the schedule import and are upserted by their
// (game_pk, offer_id) key; the league edits offers in place, so every
// import refreshes the mutable fields.
type PromotionRepo struct {
	db *sql.DB
}

// NewPromotionRepo constructs a PromotionRepo with the given DB handle.
func NewPromotionRepo(db *sql.DB) *PromotionRepo { return &PromotionRepo{db: db} }

// Upsert inserts or refreshes one promotion. Unknown games fail the
// foreign key and surface as ErrValidation.
func (r *PromotionRepo) Upsert(ctx context.Context, p *model.Promotion) error {
	const q = `INSERT INTO promotions (offer_id, game_pk, name, offer_type, description,
	             distribution, presented_by, alt_page_url, ticket_link,
	             thumbnail_url, image_url, display_order)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             name = VALUES(name),
	             offer_type = VALUES(offer_type),
	             description = VALUES(description),
	             distribution = VALUES(distribution),
	             presented_by = VALUES(presented_by),
	             alt_page_url = VALUES(alt_page_url),
	             ticket_link = VALUES(ticket_link),
	             thumbnail_url = VALUES(thumbnail_url),
	             image_url = VALUES(image_url),
	             display_order = VALUES(display_order),
	             updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q,
		p.OfferID, p.GamePk, p.Name, p.OfferType, p.Description,
		p.Distribution, p.PresentedBy, p.AltPageURL, p.TicketLink,
		p.ThumbnailURL, p.ImageURL, p.DisplayOrder)
	if err != nil && isForeignKeyErr(err) {
		return validationf("game %d does not exist", p.GamePk)
	}
	return err
}

// ListForGame returns a game's promotions in display order.
func (r *PromotionRepo) ListForGame(ctx context.Context, gamePk int64) ([]model.Promotion, error) {
	const q = `SELECT offer_id, game_pk, name, offer_type, description,
	             distribution, presented_by, alt_page_url, ticket_link,
	             thumbnail_url, image_url, display_order, created_at, updated_at
	           FROM promotions
	           WHERE game_pk = ?
	           ORDER BY display_order, name`
	rows, err := r.db.QueryContext(ctx, q, gamePk)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []model.Promotion
	for rows.Next() {
		var p model.Promotion
		if err := rows.Scan(&p.OfferID, &p.GamePk, &p.Name, &p.OfferType, &p.Description,
			&p.Distribution, &p.PresentedBy, &p.AltPageURL, &p.TicketLink,
			&p.ThumbnailURL, &p.ImageURL, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return promos, nil
}
