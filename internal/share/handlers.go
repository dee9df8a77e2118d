package share

import (
	"encoding/json"

	"backend-looply/internal/apperr"
	"backend-looply/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes attaches the share endpoint to the posts router.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:id/share", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Targets []json.RawMessage `json:"targets"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		count, err := svc.SharePost(c.Context(), c.Params("id"), auth.CallerID(c), body.Targets)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"share_count": count})
	})
}
