package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/iotlogic/tank-monitor/internal/service"
)

func Register(app *fiber.App, svcs *service.Services) {
	g := app.Group("/api/tank")

	// Registered for all verbs so non-POST callers get the JSON envelope
	// instead of fiber's plain-text 405.
	g.All("update", func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return fail(c, service.ErrMethodNotAllowed)
		}
		stored, err := svcs.Ingest.Ingest(c.Body())
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{
			"status":  "OK",
			"message": "Data stored successfully",
			"data":    stored,
		})
	})

	// tank_id is parse-with-default: missing or non-numeric input falls back
	// to tank 1 rather than being rejected.
	g.Get("data", func(c *fiber.Ctx) error {
		tankID := c.QueryInt("tank_id", 1)
		snap, err := svcs.Query.Snapshot(tankID)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(snap)
	})
}

func fail(c *fiber.Ctx, e *service.Error) error {
	return c.Status(e.Status).JSON(fiber.Map{"error": e.Message})
}

func failErr(c *fiber.Ctx, err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		return fail(c, se)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
