package ledger

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/corebank/corebank/internal/domain"
	"github.com/corebank/corebank/internal/middleware"
)

// Handler exposes account endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Login string `json:"login" validate:"required,max=64"`
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type transferRequest struct {
	FromAccountID int64 `json:"from_account_id" validate:"required,gt=0"`
	ToAccountID   int64 `json:"to_account_id" validate:"required,gt=0"`
	Amount        int64 `json:"amount"`
}

type accountResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// Create opens an account for the user named in the body.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := middleware.ParseAndValidate(c, &req); err != nil {
		return err
	}
	account, err := h.service.Create(c.UserContext(), req.Login)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(toResponse(account))
}

// Get returns a single account.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := middleware.Int64Param(c, "accountId")
	if err != nil {
		return err
	}
	account, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(account))
}

// ListForUser returns every account owned by the user in the path.
func (h *Handler) ListForUser(c *fiber.Ctx) error {
	userID, err := middleware.Int64Param(c, "userId")
	if err != nil {
		return err
	}
	accounts, err := h.service.ListForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, toResponse(account))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Deposit credits the account in the path.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	id, err := middleware.Int64Param(c, "accountId")
	if err != nil {
		return err
	}
	var req amountRequest
	if err := middleware.ParseAndValidate(c, &req); err != nil {
		return err
	}
	account, err := h.service.Deposit(c.UserContext(), id, req.Amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(account))
}

// Withdraw debits the account in the path.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	id, err := middleware.Int64Param(c, "accountId")
	if err != nil {
		return err
	}
	var req amountRequest
	if err := middleware.ParseAndValidate(c, &req); err != nil {
		return err
	}
	account, err := h.service.Withdraw(c.UserContext(), id, req.Amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(account))
}

// Transfer moves money between two accounts.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := middleware.ParseAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.service.Transfer(c.UserContext(), req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"from_account_id": res.FromAccountID,
		"to_account_id":   res.ToAccountID,
		"amount":          res.Amount,
		"credited":        res.Credited,
		"commission":      res.Commission,
		"from_balance":    res.FromBalance,
		"to_balance":      res.ToBalance,
		"completed_at":    res.CompletedAt,
	})
}

// Close sweeps and deletes the account in the path.
func (h *Handler) Close(c *fiber.Ctx) error {
	id, err := middleware.Int64Param(c, "accountId")
	if err != nil {
		return err
	}
	closed, err := h.service.Close(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"closed_account_id": closed.ID,
		"swept_amount":      closed.Balance,
	})
}

func toResponse(account domain.Account) accountResponse {
	return accountResponse{
		ID:        account.ID,
		UserID:    account.UserID,
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt,
	}
}
