package model

import "time"

// Seat describes one physical season-ticket seat. Seats are uniquely
// identified by their section, row and seat number; those three fields
// are immutable once created while Notes may be edited freely.
// Deleting a seat cascades to all of its game tickets.
//
// Fields:
//  ID      – primary key identifier.
//  Section – stadium section (e.g. "127").
//  Row     – row within the section (e.g. "A").
//  Seat    – seat number within the row, kept as free text to match
//            physical ticket printing (e.g. "3", "3A").
//  Notes   – optional free-text notes about the seat.
type Seat struct {
	ID        int64     `json:"id"`      // seats.id
	Section   string    `json:"section"` // seats.section
	Row       string    `json:"row"`     // seats.row_label
	Seat      string    `json:"seat"`    // seats.seat_number
	Notes     *string   `json:"notes"`   // seats.notes (nullable)
	CreatedAt time.Time `json:"-"`       // seats.created_at
	UpdatedAt time.Time `json:"-"`       // seats.updated_at
}
