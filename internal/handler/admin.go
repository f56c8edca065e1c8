package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jdrivas/gtm/internal/allocation"
	"github.com/jdrivas/gtm/internal/queue"
)

// AllocationSummary handles GET /api/admin/allocation: one row per home
// game with counts and the oversubscription flag.
func (h *Handler) AllocationSummary(c echo.Context) error {
	rows, err := h.Engine.Summary(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// AllocationDetail handles GET /api/admin/allocation/:game_pk: the game,
// its tickets with holders, and its requests with requesters.
func (h *Handler) AllocationDetail(c echo.Context) error {
	gamePk, ok := pathID(c, "game_pk")
	if !ok {
		return badRequest(c, "invalid game_pk")
	}
	detail, err := h.Engine.Detail(c.Request().Context(), gamePk)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// AllocationByUser handles GET /api/admin/allocation/by-user/:user_id:
// all tickets assigned to one member.
func (h *Handler) AllocationByUser(c echo.Context) error {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return badRequest(c, "invalid user_id")
	}
	if _, err := h.Users.GetByID(c.Request().Context(), userID); err != nil {
		return fail(c, err)
	}
	tickets, err := h.Tickets.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tickets)
}

// ListPendingRequests handles GET /api/admin/requests: the allocation
// queue, oldest first.
func (h *Handler) ListPendingRequests(c echo.Context) error {
	requests, err := h.Requests.ListPending(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// ListUsers handles GET /api/users: the member directory.
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Allocate handles POST /api/admin/allocate: the body wraps a batch of
// ticket/user bindings, {"assignments": [{game_ticket_id, user_id,
// request_id?}]}, each optionally linked to a request. Entries whose
// ticket is no longer available are skipped; the response reports how
// many took.
func (h *Handler) Allocate(c echo.Context) error {
	var body struct {
		Assignments []allocation.Assignment `json:"assignments"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(body.Assignments) == 0 {
		return badRequest(c, "at least one assignment is required")
	}
	admin, err := h.resolveUser(c)
	if err != nil {
		return fail(c, err)
	}

	ctx := c.Request().Context()
	assigned, err := h.Engine.BatchAssign(ctx, body.Assignments)
	if err != nil {
		return fail(c, err)
	}
	for _, a := range assigned {
		ev := queue.NewEvent(queue.KindTicketAssigned)
		ev.TicketID = a.TicketID
		ev.UserID = a.UserID
		ev.ActorEmail = admin.Email
		h.Publisher.Publish(ctx, ev)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"assigned":  len(assigned),
		"requested": len(body.Assignments),
	})
}

// RevokeAssignment handles DELETE /api/admin/allocate/:id: returns one
// assigned ticket to the pool.
func (h *Handler) RevokeAssignment(c echo.Context) error {
	admin, err := h.resolveUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	revoked, err := h.Engine.Revoke(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if !revoked {
		return notFound(c, "ticket not found or not assigned")
	}
	ev := queue.NewEvent(queue.KindTicketRevoked)
	ev.TicketID = id
	ev.ActorEmail = admin.Email
	h.Publisher.Publish(c.Request().Context(), ev)
	return c.JSON(http.StatusOK, map[string]string{"status": "revoked"})
}

// ScrapeSchedule handles POST /api/admin/scrape-schedule: imports the
// season schedule for the configured team, upserts every game and its
// promotions, then backfills tickets for the whole seat block. Defaults
// to the current year when ?season is absent.
func (h *Handler) ScrapeSchedule(c echo.Context) error {
	season := time.Now().Year()
	if raw := c.QueryParam("season"); raw != "" {
		s, err := strconv.Atoi(raw)
		if err != nil || s < 2000 {
			return badRequest(c, "invalid season")
		}
		season = s
	}

	ctx := c.Request().Context()
	sched, err := h.Scraper.FetchSchedule(ctx, h.Cfg.TeamID, season)
	if err != nil {
		return fail(c, err)
	}
	for i := range sched.Games {
		if err := h.Games.Upsert(ctx, &sched.Games[i]); err != nil {
			return fail(c, err)
		}
	}
	for i := range sched.Promotions {
		if err := h.Promotions.Upsert(ctx, &sched.Promotions[i]); err != nil {
			return fail(c, err)
		}
	}
	generated, err := h.Tickets.GenerateForAllSeats(ctx, h.Cfg.TeamID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"games_imported":      len(sched.Games),
		"promotions_imported": len(sched.Promotions),
		"tickets_generated":   generated,
	})
}
