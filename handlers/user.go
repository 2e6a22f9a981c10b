// handlers/user.go
package handlers

import (
	"errors"
	"strconv"

	"enb-blast-service/middleware"
	"enb-blast-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, leaderboard *services.LeaderboardService) {
	secured := app.Group("/user", middleware.BearerAuthMiddleware())

	secured.Get("/profile", func(c *fiber.Ctx) error {
		fid := c.Locals("fid").(int64)

		user, err := userService.EnsureUser(fid)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load profile",
			})
		}
		return c.JSON(user)
	})

	secured.Put("/wallet", func(c *fiber.Ctx) error {
		fid := c.Locals("fid").(int64)

		var req struct {
			WalletAddress string `json:"walletAddress"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.WalletAddress == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "walletAddress is required"})
		}

		user, err := userService.BindWallet(fid, req.WalletAddress)
		if err != nil {
			if errors.Is(err, services.ErrInvalidWalletAddress) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid wallet address"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to bind wallet",
			})
		}
		return c.JSON(user)
	})

	secured.Put("/username", func(c *fiber.Ctx) error {
		fid := c.Locals("fid").(int64)

		var req struct {
			Username string `json:"username"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Username == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username is required"})
		}

		user, err := userService.UpdateUsername(fid, req.Username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update username",
			})
		}
		return c.JSON(user)
	})

	// Leaderboard reads are public.
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		switch c.Query("period", "weekly") {
		case "weekly":
			entries, err := leaderboard.TopWeekly(c.Context(), limit)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to load weekly leaderboard",
				})
			}
			return c.JSON(fiber.Map{"period": "weekly", "entries": entries})
		case "alltime":
			entries, err := leaderboard.TopAllTime(limit)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to load all-time leaderboard",
				})
			}
			return c.JSON(fiber.Map{"period": "alltime", "entries": entries})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "period must be weekly or alltime"})
		}
	})
}
