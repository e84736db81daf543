package appointment

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/derma/clinic/internal/domain/identity"
	"github.com/derma/clinic/internal/platform/apperror"
	"github.com/derma/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/appointments", h.List)
	g.POST("/appointments", h.Create)
	g.GET("/appointments/:id", h.Get)
	g.PUT("/appointments/:id/status", h.UpdateStatus)
}

type createRequest struct {
	PatientID    string  `json:"patient_id"`
	SpecialistID string  `json:"specialist_id"`
	TreatmentID  string  `json:"treatment_id"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Notes        *string `json:"notes"`
}

func (h *Handler) Create(c echo.Context) error {
	p := auth.MustPrincipal(c)

	var req createRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ValidationMsg("invalid request body")
	}

	in := CreateInput{Date: req.Date, Time: req.Time, Notes: req.Notes}

	// patients always book for themselves; admins may book on behalf
	if p.Role == string(identity.RolePatient) || req.PatientID == "" {
		in.PatientID = p.ID
	} else {
		id, err := uuid.Parse(req.PatientID)
		if err != nil {
			return apperror.Validation(map[string]string{"patient_id": "must be a valid id"})
		}
		in.PatientID = id
	}

	fields := map[string]string{}
	if req.SpecialistID != "" {
		id, err := uuid.Parse(req.SpecialistID)
		if err != nil {
			fields["specialist_id"] = "must be a valid id"
		} else {
			in.SpecialistID = id
		}
	}
	if req.TreatmentID != "" {
		id, err := uuid.Parse(req.TreatmentID)
		if err != nil {
			fields["treatment_id"] = "must be a valid id"
		} else {
			in.TreatmentID = id
		}
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}

	a, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "appointment": a})
}

func (h *Handler) List(c echo.Context) error {
	appts, err := h.svc.ListForCaller(c.Request().Context(), auth.MustPrincipal(c).ID)
	if err != nil {
		return err
	}
	if appts == nil {
		appts = []*Appointment{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "appointments": appts})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ValidationMsg("invalid appointment id")
	}
	a, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "appointment": a})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ValidationMsg("invalid appointment id")
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ValidationMsg("invalid request body")
	}

	a, err := h.svc.UpdateStatus(c.Request().Context(), id, Status(req.Status), auth.MustPrincipal(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "appointment": a})
}
