package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jdrivas/gtm/internal/model"
	"github.com/jdrivas/gtm/internal/queue"
)

// requestBody is one entry of a member's request submission.
type requestBody struct {
	GamePk         int64   `json:"game_pk"`
	SeatsRequested int64   `json:"seats_requested"`
	Notes          *string `json:"notes"`
}

// Me handles GET /api/users/me: the caller's stored profile, upserted
// from the token on the way in.
func (h *Handler) Me(c echo.Context) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListMyRequests handles GET /api/my/requests, newest first.
func (h *Handler) ListMyRequests(c echo.Context) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return fail(c, err)
	}
	requests, err := h.Requests.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// CreateMyRequests handles POST /api/my/requests. The body wraps a
// batch of per-game asks, {"requests": [{game_pk, seats_requested,
// notes?}]}; every entry is validated before any write, and the first
// invalid entry rejects the whole batch naming its game_pk. Valid
// batches upsert one request per game: repeat submissions update the
// existing row, withdrawn rows reactivate.
func (h *Handler) CreateMyRequests(c echo.Context) error {
	var body struct {
		Requests []requestBody `json:"requests"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(body.Requests) == 0 {
		return badRequest(c, "at least one request entry is required")
	}
	for _, entry := range body.Requests {
		if entry.SeatsRequested < model.MinSeatsRequested || entry.SeatsRequested > model.MaxSeatsRequested {
			return badRequest(c, fmt.Sprintf("seats_requested must be %d-%d (got %d for game_pk %d)",
				model.MinSeatsRequested, model.MaxSeatsRequested, entry.SeatsRequested, entry.GamePk))
		}
	}

	user, err := h.resolveUser(c)
	if err != nil {
		return fail(c, err)
	}
	ctx := c.Request().Context()
	created := make([]model.TicketRequest, 0, len(body.Requests))
	for _, entry := range body.Requests {
		req, err := h.Requests.CreateOrReactivate(ctx, user.ID, entry.GamePk, entry.SeatsRequested, entry.Notes)
		if err != nil {
			return fail(c, err)
		}
		created = append(created, *req)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateMyRequest handles PATCH /api/my/requests/:id: changes
// seats_requested on the caller's own pending request.
func (h *Handler) UpdateMyRequest(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body struct {
		SeatsRequested int64 `json:"seats_requested"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	user, err := h.resolveUser(c)
	if err != nil {
		return fail(c, err)
	}
	updated, err := h.Requests.Update(c.Request().Context(), id, user.ID, body.SeatsRequested)
	if err != nil {
		return fail(c, err)
	}
	if !updated {
		return notFound(c, "request not found or not pending")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// WithdrawMyRequest handles DELETE /api/my/requests/:id. Withdrawal
// stops future consideration; tickets already assigned stay assigned.
func (h *Handler) WithdrawMyRequest(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	user, err := h.resolveUser(c)
	if err != nil {
		return fail(c, err)
	}
	withdrawn, err := h.Requests.Withdraw(c.Request().Context(), id, user.ID)
	if err != nil {
		return fail(c, err)
	}
	if !withdrawn {
		return notFound(c, "request not found or not pending")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "withdrawn"})
}

// ListMyGames handles GET /api/my/games: every ticket currently
// assigned to the caller, across the season.
func (h *Handler) ListMyGames(c echo.Context) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return fail(c, err)
	}
	tickets, err := h.Tickets.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tickets)
}

// ReleaseMyGame handles POST /api/my/games/:game_pk/release: returns
// all of the caller's tickets for one game to the pool.
func (h *Handler) ReleaseMyGame(c echo.Context) error {
	gamePk, ok := pathID(c, "game_pk")
	if !ok {
		return badRequest(c, "invalid game_pk")
	}
	user, err := h.resolveUser(c)
	if err != nil {
		return fail(c, err)
	}
	released, err := h.Engine.ReleaseForUser(c.Request().Context(), gamePk, user.ID)
	if err != nil {
		return fail(c, err)
	}
	if released > 0 {
		ev := queue.NewEvent(queue.KindTicketsReleased)
		ev.GamePk = gamePk
		ev.UserID = user.ID
		ev.Count = released
		ev.ActorEmail = user.Email
		h.Publisher.Publish(c.Request().Context(), ev)
	}
	return c.JSON(http.StatusOK, map[string]int64{"tickets_released": released})
}
