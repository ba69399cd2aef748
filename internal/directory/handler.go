package directory

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/corebank/corebank/internal/domain"
	"github.com/corebank/corebank/internal/middleware"
)

// Handler exposes user endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a user HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Login string `json:"login" validate:"required,max=64"`
}

type userResponse struct {
	ID         int64     `json:"id"`
	Login      string    `json:"login"`
	AccountIDs []int64   `json:"account_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

// Create registers a user.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := middleware.ParseAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.service.Create(c.UserContext(), req.Login)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(toResponse(user))
}

// Get returns one user.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := middleware.Int64Param(c, "userId")
	if err != nil {
		return err
	}
	user, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(user))
}

// List returns all users.
func (h *Handler) List(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toResponse(user))
	}
	return c.Status(http.StatusOK).JSON(out)
}

func toResponse(user domain.User) userResponse {
	ids := user.AccountIDs
	if ids == nil {
		ids = []int64{}
	}
	return userResponse{ID: user.ID, Login: user.Login, AccountIDs: ids, CreatedAt: user.CreatedAt}
}
