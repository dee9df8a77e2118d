package suggest

import (
	"strconv"

	"backend-looply/internal/apperr"
	"backend-looply/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit"))
		suggestions, err := svc.Suggestions(c.Context(), auth.CallerID(c), limit)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(suggestions)
	})
}
