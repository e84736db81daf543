package catalog

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/derma/clinic/internal/platform/apperror"
	"github.com/derma/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the catalog endpoints. Reads are public; writes are
// admin only.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	adminOnly := auth.RequireRole("admin")

	g.GET("/treatments", h.ListTreatments)
	g.GET("/treatments/:id", h.GetTreatment)
	g.POST("/treatments", h.CreateTreatment, adminOnly)
	g.PUT("/treatments/:id", h.UpdateTreatment, adminOnly)
	g.DELETE("/treatments/:id", h.DeleteTreatment, adminOnly)

	g.GET("/lab-tests", h.ListLabTests)
	g.GET("/lab-tests/:id", h.GetLabTest)
	g.POST("/lab-tests", h.CreateLabTest, adminOnly)
	g.PUT("/lab-tests/:id", h.UpdateLabTest, adminOnly)
	g.DELETE("/lab-tests/:id", h.DeleteLabTest, adminOnly)
}

type itemRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Preparation *string `json:"preparation"`
	Price       float64 `json:"price"`
}

func bindItem(c echo.Context) (ItemInput, error) {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return ItemInput{}, apperror.ValidationMsg("invalid request body")
	}
	return ItemInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Preparation: req.Preparation,
		Price:       req.Price,
	}, nil
}

func pathID(c echo.Context, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.ValidationMsg("invalid " + label + " id")
	}
	return id, nil
}

func (h *Handler) ListTreatments(c echo.Context) error {
	treatments, err := h.svc.ListTreatments(c.Request().Context())
	if err != nil {
		return err
	}
	if treatments == nil {
		treatments = []*Treatment{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "treatments": treatments})
}

func (h *Handler) GetTreatment(c echo.Context) error {
	id, err := pathID(c, "treatment")
	if err != nil {
		return err
	}
	t, err := h.svc.GetTreatment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "treatment": t})
}

func (h *Handler) CreateTreatment(c echo.Context) error {
	in, err := bindItem(c)
	if err != nil {
		return err
	}
	t, err := h.svc.CreateTreatment(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "treatment": t})
}

func (h *Handler) UpdateTreatment(c echo.Context) error {
	id, err := pathID(c, "treatment")
	if err != nil {
		return err
	}
	in, err := bindItem(c)
	if err != nil {
		return err
	}
	t, err := h.svc.UpdateTreatment(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "treatment": t})
}

func (h *Handler) DeleteTreatment(c echo.Context) error {
	id, err := pathID(c, "treatment")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteTreatment(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "treatment deleted"})
}

func (h *Handler) ListLabTests(c echo.Context) error {
	tests, err := h.svc.ListLabTests(c.Request().Context())
	if err != nil {
		return err
	}
	if tests == nil {
		tests = []*LabTest{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "lab_tests": tests})
}

func (h *Handler) GetLabTest(c echo.Context) error {
	id, err := pathID(c, "lab test")
	if err != nil {
		return err
	}
	lt, err := h.svc.GetLabTest(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "lab_test": lt})
}

func (h *Handler) CreateLabTest(c echo.Context) error {
	in, err := bindItem(c)
	if err != nil {
		return err
	}
	lt, err := h.svc.CreateLabTest(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "lab_test": lt})
}

func (h *Handler) UpdateLabTest(c echo.Context) error {
	id, err := pathID(c, "lab test")
	if err != nil {
		return err
	}
	in, err := bindItem(c)
	if err != nil {
		return err
	}
	lt, err := h.svc.UpdateLabTest(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "lab_test": lt})
}

func (h *Handler) DeleteLabTest(c echo.Context) error {
	id, err := pathID(c, "lab test")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteLabTest(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "lab test deleted"})
}
