package review

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/derma/clinic/internal/platform/apperror"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/appointments/:id/review", h.Submit)
	g.GET("/appointments/:id/review", h.Get)
	g.GET("/reviews", h.List)
}

type submitRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *Handler) Submit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ValidationMsg("invalid appointment id")
	}
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ValidationMsg("invalid request body")
	}

	rv, err := h.svc.Submit(c.Request().Context(), id, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "review": rv})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ValidationMsg("invalid appointment id")
	}
	rv, err := h.svc.GetByAppointment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "review": rv})
}

func (h *Handler) List(c echo.Context) error {
	reviews, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	if reviews == nil {
		reviews = []*Detail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reviews": reviews})
}
