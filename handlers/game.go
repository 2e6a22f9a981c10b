// handlers/game.go
package handlers

import (
	"errors"
	"time"

	"enb-blast-service/middleware"
	"enb-blast-service/models"
	"enb-blast-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService) {
	secured := app.Group("/game", middleware.BearerAuthMiddleware())

	secured.Post("/start", func(c *fiber.Ctx) error {
		fid := c.Locals("fid").(int64)

		session, err := gameService.StartSession(fid)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to start session",
			})
		}

		return c.JSON(fiber.Map{
			"session_id": session.ID,
			"start_time": session.StartTime,
		})
	})

	secured.Post("/end", func(c *fiber.Ctx) error {
		fid := c.Locals("fid").(int64)

		var req struct {
			SessionID string             `json:"sessionId"`
			Events    []models.GameEvent `json:"events"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.SessionID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sessionId is required"})
		}

		result, err := gameService.EndSession(fid, req.SessionID, req.Events, time.Now().UTC())
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to end session",
			})
		}

		// Anti-cheat rejection: the session was marked INVALID_SCORE as a
		// side effect, but the batch itself is refused.
		if result.Status == models.StatusInvalidScore {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "event rate exceeds maximum possible",
				"status": result.Status,
			})
		}

		return c.JSON(result)
	})
}
