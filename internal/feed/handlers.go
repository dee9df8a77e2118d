package feed

import (
	"strconv"

	"backend-looply/internal/apperr"
	"backend-looply/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit"))
		items, err := svc.Community(c.Context(), auth.CallerID(c), limit)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(fiber.Map{"posts": items, "count": len(items)})
	})

	r.Get("/shared", authMiddleware, func(c *fiber.Ctx) error {
		items, err := svc.SharedWithMe(c.Context(), auth.CallerID(c))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(fiber.Map{"shared_posts": items})
	})
}
