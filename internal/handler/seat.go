package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jdrivas/gtm/internal/repository"
)

// maxSeatRange bounds a single batch add. A real season-ticket block is
// a handful of seats; anything this large is a typo in the range.
const maxSeatRange = 50

// ListSeats handles GET /api/seats.
func (h *Handler) ListSeats(c echo.Context) error {
	seats, err := h.Seats.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, seats)
}

// AddSeat handles POST /api/seats: inserts one seat and immediately
// generates its tickets for every known home game.
func (h *Handler) AddSeat(c echo.Context) error {
	var body struct {
		Section string  `json:"section"`
		Row     string  `json:"row"`
		Seat    string  `json:"seat"`
		Notes   *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	seat, err := h.Seats.Add(ctx, body.Section, body.Row, body.Seat, body.Notes)
	if err != nil {
		return fail(c, err)
	}
	generated, err := h.Tickets.GenerateForSeat(ctx, seat.ID, h.Cfg.TeamID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"seat":              seat,
		"tickets_generated": generated,
	})
}

// AddSeatBatch handles POST /api/seats/batch: adds a numeric run of
// seats in one section/row. The range is validated before any insert;
// after that, seats that already exist are skipped and the response
// reports what was actually created.
func (h *Handler) AddSeatBatch(c echo.Context) error {
	var body struct {
		Section   string  `json:"section"`
		Row       string  `json:"row"`
		SeatStart int     `json:"seat_start"`
		SeatEnd   int     `json:"seat_end"`
		Notes     *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Section == "" || body.Row == "" {
		return badRequest(c, "section and row are required")
	}
	if body.SeatStart > body.SeatEnd {
		return badRequest(c, "seat_start must not exceed seat_end")
	}
	if body.SeatEnd-body.SeatStart+1 >= maxSeatRange {
		return badRequest(c, fmt.Sprintf("seat range must be smaller than %d", maxSeatRange))
	}

	ctx := c.Request().Context()
	var created, generated int64
	for n := body.SeatStart; n <= body.SeatEnd; n++ {
		seat, err := h.Seats.Add(ctx, body.Section, body.Row, fmt.Sprintf("%d", n), body.Notes)
		if err != nil {
			if errors.Is(err, repository.ErrValidation) {
				continue // seat already exists
			}
			return fail(c, err)
		}
		created++
		g, err := h.Tickets.GenerateForSeat(ctx, seat.ID, h.Cfg.TeamID)
		if err != nil {
			return fail(c, err)
		}
		generated += g
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"seats_created":     created,
		"tickets_generated": generated,
	})
}

// UpdateSeatGroupNotes handles PATCH /api/seats/group: replaces the
// notes on every seat in a section/row group.
func (h *Handler) UpdateSeatGroupNotes(c echo.Context) error {
	var body struct {
		Section string  `json:"section"`
		Row     string  `json:"row"`
		Notes   *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Section == "" || body.Row == "" {
		return badRequest(c, "section and row are required")
	}
	n, err := h.Seats.UpdateGroupNotes(c.Request().Context(), body.Section, body.Row, body.Notes)
	if err != nil {
		return fail(c, err)
	}
	if n == 0 {
		return notFound(c, "no seats in that group")
	}
	return c.JSON(http.StatusOK, map[string]int64{"seats_updated": n})
}

// DeleteSeat handles DELETE /api/seats/:id. The seat's tickets go with
// it, assigned or not.
func (h *Handler) DeleteSeat(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	deleted, err := h.Seats.Delete(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if !deleted {
		return notFound(c, "seat not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateTicket handles PATCH /api/tickets/:id. Only notes are editable
// here; assignment state changes go through the allocation routes.
func (h *Handler) UpdateTicket(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body struct {
		Notes *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	updated, err := h.Tickets.UpdateNotes(c.Request().Context(), id, body.Notes)
	if err != nil {
		return fail(c, err)
	}
	if !updated {
		return notFound(c, "ticket not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
