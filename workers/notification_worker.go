// workers/notification_worker.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"enb-blast-service/models"

	"gorm.io/gorm"
)

// Users whose last claim is older than this are at risk of losing their
// streak at the next UTC midnight and get a reminder.
const reminderThreshold = 20 * time.Hour

// NotificationClient posts claim-reminder broadcasts to the external
// notification service. Delivery is that service's problem; we only enqueue.
type NotificationClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

// NewNotificationClient returns nil when NOTIFICATION_SERVICE_URL is unset;
// reminders are optional.
func NewNotificationClient(db *gorm.DB) *NotificationClient {
	baseURL := os.Getenv("NOTIFICATION_SERVICE_URL")
	if baseURL == "" {
		return nil
	}
	token := os.Getenv("NOTIFICATION_SERVICE_TOKEN")

	return &NotificationClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Broadcast sends one reminder payload for a batch of FIDs.
func (c *NotificationClient) Broadcast(ctx context.Context, fids []int64, title, body string) error {
	payload := map[string]interface{}{
		"fids":  fids,
		"title": title,
		"body":  body,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/v1/notifications/broadcast", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call notification service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notification service returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// pruneReminded drops dedup marks from previous days so the map stays
// bounded by the number of users reminded today.
func pruneReminded(remindedOn map[int64]string, today string) {
	for fid, day := range remindedOn {
		if day != today {
			delete(remindedOn, fid)
		}
	}
}

// PollClaimReminders periodically finds users about to lose a streak and
// broadcasts a reminder, at most once per user per UTC day. The dedup map is
// in-process; run a single reminder instance.
func PollClaimReminders(ctx context.Context, client *NotificationClient, pollInterval time.Duration) {
	log.Println("Starting claim reminder polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	remindedOn := make(map[int64]string) // fid → UTC date of last reminder

	for {
		select {
		case <-ctx.Done():
			log.Println("Claim reminder polling stopped.")
			return
		case <-ticker.C:
			now := time.Now().UTC()
			cutoff := now.Add(-reminderThreshold)
			today := now.Format("2006-01-02")
			pruneReminded(remindedOn, today)

			var users []models.User
			if err := client.DB.
				Where("streak > 0 AND last_claimed_at IS NOT NULL AND last_claimed_at < ?", cutoff).
				Find(&users).Error; err != nil {
				log.Printf("❌ Error querying reminder candidates: %v", err)
				continue
			}

			fids := make([]int64, 0, len(users))
			for _, u := range users {
				if remindedOn[u.FID] == today {
					continue
				}
				fids = append(fids, u.FID)
			}
			if len(fids) == 0 {
				continue
			}

			if err := client.Broadcast(ctx, fids,
				"Your streak is waiting ⏰",
				"Claim today to keep your streak alive!",
			); err != nil {
				log.Printf("❌ Failed to broadcast claim reminders: %v", err)
				// Do NOT mark as reminded on failure — retry next tick
				continue
			}

			for _, fid := range fids {
				remindedOn[fid] = today
			}
			log.Printf("📣 Sent claim reminders to %d user(s)", len(fids))
		}
	}
}
