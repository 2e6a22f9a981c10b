// handlers/claim.go
package handlers

import (
	"errors"
	"time"

	"enb-blast-service/middleware"
	"enb-blast-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupClaimRoutes(app *fiber.App, claimService *services.ClaimService) {
	secured := app.Group("/claim", middleware.BearerAuthMiddleware())

	secured.Post("/signature", func(c *fiber.Ctx) error {
		fid := c.Locals("fid").(int64)

		var req struct {
			WalletAddress string  `json:"walletAddress"`
			Amount        float64 `json:"amount"`
			Points        int64   `json:"points"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.WalletAddress == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "walletAddress is required"})
		}

		result, err := claimService.IssueClaimSignature(c.Context(), fid, req.WalletAddress, req.Amount, req.Points)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrInvalidPoints):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrWalletMismatch):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid wallet address"})
			case errors.Is(err, services.ErrUserNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to issue claim signature",
			})
		}

		return c.JSON(result)
	})

	secured.Post("/confirm", func(c *fiber.Ctx) error {
		fid := c.Locals("fid").(int64)

		var req struct {
			TxHash string `json:"txHash"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.TxHash == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "txHash is required"})
		}

		user, err := claimService.ConfirmClaim(fid, req.TxHash, time.Now().UTC())
		if err != nil {
			if errors.Is(err, services.ErrNoPendingClaim) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no pending claim"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to confirm claim",
			})
		}

		return c.JSON(fiber.Map{
			"streak":          user.Streak,
			"last_claimed_at": user.LastClaimedAt,
		})
	})

	secured.Get("/status", func(c *fiber.Ctx) error {
		fid := c.Locals("fid").(int64)

		state, err := claimService.Status(c.Context(), fid)
		if err != nil {
			if errors.Is(err, services.ErrNotRegistered) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "user is not registered on-chain"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read claim status",
			})
		}

		return c.JSON(state)
	})

	powerup := app.Group("/powerup", middleware.BearerAuthMiddleware())

	powerup.Post("/mint-signature", func(c *fiber.Ctx) error {
		fid := c.Locals("fid").(int64)

		var req struct {
			WalletAddress string `json:"walletAddress"`
			TokenType     int64  `json:"tokenType"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.WalletAddress == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "walletAddress is required"})
		}
		if req.TokenType <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tokenType must be positive"})
		}

		result, err := claimService.IssueMintSignature(c.Context(), fid, req.WalletAddress, req.TokenType)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrWalletMismatch):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid wallet address"})
			case errors.Is(err, services.ErrUserNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to issue mint signature",
			})
		}

		return c.JSON(result)
	})
}
