package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/corebank/corebank/internal/ledger"
)

// RegisterAccountRoutes wires ledger endpoints.
func RegisterAccountRoutes(r fiber.Router, h *ledger.Handler) {
	group := r.Group("/accounts")
	group.Post("", h.Create)
	group.Post("/transfer", h.Transfer)
	group.Get("/:accountId", h.Get)
	group.Post("/:accountId/deposit", h.Deposit)
	group.Post("/:accountId/withdraw", h.Withdraw)
	group.Delete("/:accountId", h.Close)
}
