package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/corebank/corebank/internal/directory"
	"github.com/corebank/corebank/internal/ledger"
)

// RegisterUserRoutes wires user directory endpoints.
func RegisterUserRoutes(r fiber.Router, users *directory.Handler, accounts *ledger.Handler, createLimit fiber.Handler) {
	group := r.Group("/users")
	group.Post("", createLimit, users.Create)
	group.Get("", users.List)
	group.Get("/:userId", users.Get)
	group.Get("/:userId/accounts", accounts.ListForUser)
}
