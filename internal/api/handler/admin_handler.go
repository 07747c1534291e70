package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-backend/internal/api/middleware"
	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

const authCookieName = "admin_token"

// AdminHandler handles admin authentication and profile endpoints.
type AdminHandler struct {
	service  ports.AuthService
	tokenTTL time.Duration
	secure   bool // set Secure on the auth cookie outside dev
}

func NewAdminHandler(service ports.AuthService, tokenTTL time.Duration, secure bool) *AdminHandler {
	return &AdminHandler{service: service, tokenTTL: tokenTTL, secure: secure}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	LastLogin string `json:"last_login,omitempty"`
}

type loginResponse struct {
	Token string        `json:"token"`
	Admin adminResponse `json:"admin"`
}

type updateProfileRequest struct {
	Name            string `json:"name"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func toAdminResponse(a *domain.Admin) adminResponse {
	resp := adminResponse{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  a.Role,
	}
	if !a.LastLogin.IsZero() {
		resp.LastLogin = a.LastLogin.UTC().Format(time.RFC3339)
	}
	return resp
}

// Login handles POST /api/admin/login.
//
// @Summary      Authenticate an admin and issue a token
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /api/admin/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, admin, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return respond(c, http.StatusOK, "login successful", loginResponse{
		Token: token,
		Admin: toAdminResponse(admin),
	})
}

// Logout handles POST /api/admin/logout. Tokens are stateless, so logout
// only clears the cookie; a token held elsewhere stays valid until expiry.
//
// @Summary      Log out the current admin
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /api/admin/logout [post]
func (h *AdminHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return respond(c, http.StatusOK, "logout successful", nil)
}

// VerifyToken handles GET /api/admin/verify-token. Reaching the handler at
// all means the auth middleware accepted the token.
//
// @Summary      Verify the current token
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  map[string]any
// @Router       /api/admin/verify-token [get]
func (h *AdminHandler) VerifyToken(c echo.Context) error {
	return respond(c, http.StatusOK, "token is valid", map[string]any{
		"admin_id": c.Get(middleware.ContextAdminID),
		"email":    c.Get(middleware.ContextAdminEmail),
		"role":     c.Get(middleware.ContextAdminRole),
		"name":     c.Get(middleware.ContextAdminName),
	})
}

// Profile handles GET /api/admin/profile.
//
// @Summary      Get the current admin profile
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/admin/profile [get]
func (h *AdminHandler) Profile(c echo.Context) error {
	adminID, err := ctxAdminID(c)
	if err != nil {
		return err
	}

	admin, err := h.service.Profile(c.Request().Context(), adminID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "profile retrieved", toAdminResponse(admin))
}

// UpdateProfile handles PUT /api/admin/profile.
//
// @Summary      Update name or password of the current admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile changes"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /api/admin/profile [put]
func (h *AdminHandler) UpdateProfile(c echo.Context) error {
	adminID, err := ctxAdminID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	admin, err := h.service.UpdateProfile(c.Request().Context(), adminID, ports.UpdateProfileInput{
		Name:            req.Name,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "profile updated", toAdminResponse(admin))
}
