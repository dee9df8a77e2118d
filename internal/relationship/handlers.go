package relationship

import (
	"backend-looply/internal/apperr"
	"backend-looply/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, resolver *Resolver, authMiddleware fiber.Handler) {
	r.Post("/follow", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Target string `json:"target"`
		}
		if err := c.BodyParser(&body); err != nil || body.Target == "" {
			return fiber.NewError(fiber.StatusBadRequest, "target required")
		}
		result, err := svc.Follow(c.Context(), auth.CallerID(c), body.Target)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(result)
	})

	r.Post("/unfollow", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Target string `json:"target"`
		}
		if err := c.BodyParser(&body); err != nil || body.Target == "" {
			return fiber.NewError(fiber.StatusBadRequest, "target required")
		}
		result, err := svc.Unfollow(c.Context(), auth.CallerID(c), body.Target)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(result)
	})

	r.Get("/following/:target", authMiddleware, func(c *fiber.Ctx) error {
		following, err := svc.IsFollowing(c.Context(), auth.CallerID(c), c.Params("target"))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(fiber.Map{"following": following})
	})

	r.Get("/connections", authMiddleware, func(c *fiber.Ctx) error {
		connections, err := resolver.Connections(c.Context(), auth.CallerID(c))
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(fiber.Map{"connections": connections})
	})

	r.Post("/requests", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			RecipientID string `json:"recipient_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.RecipientID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "recipient_id required")
		}
		req, err := svc.SendFriendRequest(c.Context(), auth.CallerID(c), body.RecipientID)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	})

	r.Put("/requests/:id", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Status RequestStatus `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil || body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status required")
		}
		req, err := svc.RespondToRequest(c.Context(), c.Params("id"), auth.CallerID(c), body.Status)
		if err != nil {
			return fiber.NewError(apperr.Status(err), err.Error())
		}
		return c.JSON(req)
	})
}
