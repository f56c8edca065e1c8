package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListGames handles GET /api/games. An optional ?month=N query (1-12)
// filters by the official date's month; anything else lists the whole
// season.
func (h *Handler) ListGames(c echo.Context) error {
	month := 0
	if raw := c.QueryParam("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return badRequest(c, "month must be 1-12")
		}
		month = m
	}
	games, err := h.Games.List(c.Request().Context(), month)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, games)
}

// GetGame handles GET /api/games/:game_pk.
func (h *Handler) GetGame(c echo.Context) error {
	gamePk, ok := pathID(c, "game_pk")
	if !ok {
		return badRequest(c, "invalid game_pk")
	}
	game, err := h.Games.GetByPk(c.Request().Context(), gamePk)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, game)
}

// ListGamePromotions handles GET /api/games/:game_pk/promotions: the
// game's giveaway and theme-day offers in display order.
func (h *Handler) ListGamePromotions(c echo.Context) error {
	gamePk, ok := pathID(c, "game_pk")
	if !ok {
		return badRequest(c, "invalid game_pk")
	}
	if _, err := h.Games.GetByPk(c.Request().Context(), gamePk); err != nil {
		return fail(c, err)
	}
	promos, err := h.Promotions.ListForGame(c.Request().Context(), gamePk)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, promos)
}

// ListGameTickets handles GET /api/games/:game_pk/tickets, returning
// every ticket for the game with its seat position.
func (h *Handler) ListGameTickets(c echo.Context) error {
	gamePk, ok := pathID(c, "game_pk")
	if !ok {
		return badRequest(c, "invalid game_pk")
	}
	if _, err := h.Games.GetByPk(c.Request().Context(), gamePk); err != nil {
		return fail(c, err)
	}
	tickets, err := h.Tickets.ListForGame(c.Request().Context(), gamePk)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tickets)
}

// TicketSummary handles GET /api/tickets/summary: the per-home-game
// aggregate with the oversubscription flag.
func (h *Handler) TicketSummary(c echo.Context) error {
	rows, err := h.Engine.Summary(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
