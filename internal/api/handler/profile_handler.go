package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// profileResponse is the public view of a user. The identifier is exposed as
// "user" and the last-modified timestamp is left out.
type profileResponse struct {
	User         int64     `json:"user"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	File         *string   `json:"file"`
	Location     string    `json:"location"`
	Tel          string    `json:"tel"`
	Description  string    `json:"description"`
	WorkingHours string    `json:"working_hours"`
	Type         string    `json:"type"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

type profilePatchRequest struct {
	Username     *string        `json:"username"`
	Email        *string        `json:"email"         validate:"omitempty,email"`
	FirstName    *string        `json:"first_name"`
	LastName     *string        `json:"last_name"`
	File         optionalString `json:"file"          swaggertype:"string"`
	Location     *string        `json:"location"`
	Tel          *string        `json:"tel"`
	Description  *string        `json:"description"`
	WorkingHours *string        `json:"working_hours"`
}

func toProfileResponse(u *domain.User) profileResponse {
	return profileResponse{
		User:         u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		File:         u.File,
		Location:     u.Location,
		Tel:          u.Tel,
		Description:  u.Description,
		WorkingHours: u.WorkingHours,
		Type:         string(u.Role),
		Email:        u.Email,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func toProfileList(users []*domain.User) []profileResponse {
	out := make([]profileResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toProfileResponse(u))
	}
	return out
}

// Get handles GET /api/profile/:id.
//
// @Summary      Get a user profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/profile/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// Update handles PATCH /api/profile/:id. Only the profile owner may update it.
//
// @Summary      Update own profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "User ID"
// @Param        body  body      profilePatchRequest  true  "Fields to update"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  ValidationResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/profile/{id} [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req profilePatchRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), p, id, ports.ProfilePatch{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Location:     req.Location,
		Tel:          req.Tel,
		Description:  req.Description,
		WorkingHours: req.WorkingHours,
		File:         req.File.Value,
		FileSet:      req.File.Set,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// ListBusiness handles GET /api/profiles/business.
//
// @Summary      List business profiles
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   profileResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/profiles/business [get]
func (h *ProfileHandler) ListBusiness(c echo.Context) error {
	return h.list(c, domain.RoleBusiness)
}

// ListCustomer handles GET /api/profiles/customer.
//
// @Summary      List customer profiles
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   profileResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/profiles/customer [get]
func (h *ProfileHandler) ListCustomer(c echo.Context) error {
	return h.list(c, domain.RoleCustomer)
}

func (h *ProfileHandler) list(c echo.Context, role domain.Role) error {
	users, err := h.service.ListByRole(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileList(users))
}
