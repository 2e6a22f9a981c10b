// handlers/tasks.go
package handlers

import (
	"errors"

	"enb-blast-service/middleware"
	"enb-blast-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, taskService *services.TaskService) {
	secured := app.Group("/tasks", middleware.BearerAuthMiddleware())

	secured.Post("/complete", func(c *fiber.Ctx) error {
		fid := c.Locals("fid").(int64)

		var req struct {
			TaskKey string `json:"taskKey"`
			Code    string `json:"code"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.TaskKey == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "taskKey is required"})
		}

		completion, err := taskService.Complete(fid, services.TaskKey(req.TaskKey), req.Code)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnknownTaskKey):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown task key"})
			case errors.Is(err, services.ErrInvalidSecretCode):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "incorrect secret code"})
			case errors.Is(err, services.ErrEasterEgg):
				return c.Status(fiber.StatusTeapot).JSON(fiber.Map{"error": "I'm a teapot"})
			case errors.Is(err, services.ErrTaskAlreadyCompleted):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "task already completed"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to complete task",
			})
		}

		return c.JSON(completion)
	})
}
