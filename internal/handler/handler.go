// Package handler contains the Echo HTTP handlers for the season
// ticket API: public schedule and inventory reads, member request
// self-service, and the admin allocation surface.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jdrivas/gtm/internal/allocation"
	"github.com/jdrivas/gtm/internal/config"
	"github.com/jdrivas/gtm/internal/middleware"
	"github.com/jdrivas/gtm/internal/model"
	"github.com/jdrivas/gtm/internal/repository"
	"github.com/jdrivas/gtm/internal/scraper"
	"github.com/jdrivas/gtm/internal/service"
)

// Handler bundles the stores, the allocation engine and the outbound
// integrations every route needs. One instance serves all requests.
type Handler struct {
	Cfg        config.Config
	Seats      *repository.SeatRepo
	Tickets    *repository.TicketRepo
	Games      *repository.GameRepo
	Requests   *repository.RequestRepo
	Users      *repository.UserRepo
	Promotions *repository.PromotionRepo
	Engine     *allocation.Engine
	Scraper    *scraper.Client
	Publisher  *service.AMQPPublisher
}

// resolveUser upserts the authenticated caller from the verified token
// claims and returns the stored row. Every authenticated route goes
// through here, so local user ids exist before any FK needs them.
func (h *Handler) resolveUser(c echo.Context) (*model.User, error) {
	sub, _ := c.Get(middleware.CtxSubject).(string)
	email, _ := c.Get(middleware.CtxEmail).(string)
	name, _ := c.Get(middleware.CtxName).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	if role == "" {
		role = model.RoleMember
	}
	return h.Users.Upsert(c.Request().Context(), sub, email, name, role)
}

// fail maps repository errors onto HTTP responses: validation to 400,
// the not-found sentinels to 404, everything else to a logged 500.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrValidation):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, repository.ErrSeatNotFound),
		errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
