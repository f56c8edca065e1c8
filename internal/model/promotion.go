package model

import "time"

// Promotion is a giveaway or theme-day offer attached to one game, as
// published by the MLB Stats API's schedule promotions hydration. Rows
// are keyed by (game_pk, offer_id) and refreshed on every schedule
// import; the league edits offers in place.
type Promotion struct {
	OfferID      int64     `json:"offer_id"`      // promotions.offer_id
	GamePk       int64     `json:"game_pk"`       // promotions.game_pk
	Name         string    `json:"name"`          // promotions.name
	OfferType    *string   `json:"offer_type"`    // promotions.offer_type (nullable)
	Description  *string   `json:"description"`   // promotions.description (nullable)
	Distribution *string   `json:"distribution"`  // promotions.distribution (nullable)
	PresentedBy  *string   `json:"presented_by"`  // promotions.presented_by (nullable)
	AltPageURL   *string   `json:"alt_page_url"`  // promotions.alt_page_url (nullable)
	TicketLink   *string   `json:"ticket_link"`   // promotions.ticket_link (nullable)
	ThumbnailURL *string   `json:"thumbnail_url"` // promotions.thumbnail_url (nullable)
	ImageURL     *string   `json:"image_url"`     // promotions.image_url (nullable)
	DisplayOrder int64     `json:"display_order"` // promotions.display_order
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
