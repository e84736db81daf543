package history

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

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/patient-history", h.Create, auth.RequireRole("specialist"))
	g.GET("/patients/:id/history", h.ForPatient)
}

type createRequest struct {
	PatientID     string  `json:"patient_id"`
	AppointmentID *string `json:"appointment_id"`
	Diagnosis     string  `json:"diagnosis"`
	Prescription  *string `json:"prescription"`
	Notes         *string `json:"notes"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ValidationMsg("invalid request body")
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return apperror.ValidationMsg("Invalid patient ID")
	}

	in := CreateInput{
		PatientID:    patientID,
		Diagnosis:    req.Diagnosis,
		Prescription: req.Prescription,
		Notes:        req.Notes,
	}
	if req.AppointmentID != nil {
		id, err := uuid.Parse(*req.AppointmentID)
		if err != nil {
			return apperror.Validation(map[string]string{"appointment_id": "must be a valid id"})
		}
		in.AppointmentID = &id
	}

	e, err := h.svc.Create(c.Request().Context(), auth.MustPrincipal(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "entry": e})
}

func (h *Handler) ForPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ValidationMsg("Invalid patient ID")
	}
	view, err := h.svc.ForPatient(c.Request().Context(), auth.MustPrincipal(c), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "patient": view.Patient, "history": view.Entries})
}
