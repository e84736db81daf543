package identity

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/derma/clinic/internal/platform/apperror"
	"github.com/derma/clinic/internal/platform/auth"
	"github.com/derma/clinic/internal/platform/blobstore"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the identity endpoints on the API group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)

	g.GET("/users", h.ListUsers, auth.RequireRole(string(RoleAdmin)))
	g.GET("/users/:id", h.GetUser)
	g.PUT("/users/:id", h.UpdateProfile)
	g.GET("/users/:id/certificate", h.Certificate)
	g.GET("/users/:id/license", h.License)

	g.GET("/specialists", h.ListSpecialists)
}

func formDocument(c echo.Context, field string) (*Document, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	doc := &Document{
		FileName:    fh.Filename,
		ContentType: contentType(fh),
		Content:     f,
	}
	return doc, func() { f.Close() }, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (h *Handler) Register(c echo.Context) error {
	in := RegisterInput{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Username:  c.FormValue("username"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		Mobile:    c.FormValue("mobile"),
		CNIC:      c.FormValue("cnic"),
		State:     c.FormValue("state"),
		City:      c.FormValue("city"),
		Role:      Role(c.FormValue("user_type")),
		Specialty: c.FormValue("specialty"),
	}

	cert, closeCert, err := formDocument(c, "consent_certificate")
	if err != nil {
		return err
	}
	defer closeCert()
	in.Certificate = cert

	lic, closeLic, err := formDocument(c, "license")
	if err != nil {
		return err
	}
	defer closeLic()
	in.License = lic

	u, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": u})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ValidationMsg("invalid request body")
	}

	u, pair, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u, "tokens": pair})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return apperror.ValidationMsg("refresh_token is required")
	}

	pair, err := h.svc.Refresh(c.Request().Context(), req.RefreshToken)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "tokens": pair})
}

func (h *Handler) Logout(c echo.Context) error {
	p := auth.MustPrincipal(c)
	if err := h.svc.Logout(c.Request().Context(), p.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "logged out"})
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": users})
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ValidationMsg("invalid user id")
	}
	u, err := h.svc.GetUser(c.Request().Context(), auth.MustPrincipal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Mobile    *string `json:"mobile"`
	State     *string `json:"state"`
	City      *string `json:"city"`
	Specialty *string `json:"specialty"`
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ValidationMsg("invalid user id")
	}
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ValidationMsg("invalid request body")
	}

	u, err := h.svc.UpdateProfile(c.Request().Context(), auth.MustPrincipal(c), id, UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
		State:     req.State,
		City:      req.City,
		Specialty: req.Specialty,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}

func (h *Handler) Certificate(c echo.Context) error {
	return h.document(c, blobstore.CategoryConsentCertificate)
}

func (h *Handler) License(c echo.Context) error {
	return h.document(c, blobstore.CategoryLicense)
}

func (h *Handler) document(c echo.Context, category string) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperror.ValidationMsg("invalid user id")
	}
	rc, meta, err := h.svc.Document(c.Request().Context(), auth.MustPrincipal(c), id, category)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+meta.FileName+`"`)
	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

func (h *Handler) ListSpecialists(c echo.Context) error {
	specialists, err := h.svc.ListSpecialists(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "specialists": specialists})
}
