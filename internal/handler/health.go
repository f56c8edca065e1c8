package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers GET /api/health with the service status and the team
// it manages. Used by load balancers and the smoke tests.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"team_id":   h.Cfg.TeamID,
		"team_name": h.Cfg.TeamName,
	})
}
