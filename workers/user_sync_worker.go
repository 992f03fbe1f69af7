// workers/user_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"game-arcade-system/models"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredProfile matches the JSON the bot profile service returns for one
// user, including the chats the bot sees them in.
type MirroredProfile struct {
	ExternalID  string    `json:"external_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	ChatIDs     []int64   `json:"chat_ids,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type getProfileChangesResponse struct {
	Users []MirroredProfile `json:"users"`
}

// ArcadeUserSyncWorker mirrors bot-profile users and their chat memberships
// into the local tables that rankings and display names read from.
type ArcadeUserSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewArcadeUserSyncWorker(db *gorm.DB, syncServiceBaseURL, endpointPath, serviceToken string) *ArcadeUserSyncWorker {
	return &ArcadeUserSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      syncServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *ArcadeUserSyncWorker) Start(ctx context.Context) {
	log.Println("[SYNC] Starting arcade user sync worker (profile service to arcade_users)")
	go w.run(ctx)
}

func (w *ArcadeUserSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("[SYNC] Initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.lastSyncTime()); err != nil {
				log.Printf("[SYNC] Sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("[SYNC] Arcade user sync worker stopped")
			return
		}
	}
}

// lastSyncTime is the most recent UpdatedAt in the local mirror; incremental
// fetches resume from there.
func (w *ArcadeUserSyncWorker) lastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM arcade_users WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

func (w *ArcadeUserSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	url := fmt.Sprintf("%s%s?since=%s", w.baseURL, w.endpointPath, since.UTC().Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", url, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to profile service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("profile service non-200 response: %d %s", resp.StatusCode, string(body))
	}

	var response getProfileChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode profile service response: %w", err)
	}
	if len(response.Users) == 0 {
		return nil
	}

	fold := cases.Fold()
	var upserted, failed int
	for _, remote := range response.Users {
		user := models.ArcadeUser{
			ID:             uuid.NewString(),
			ExternalUserID: remote.ExternalID,
			Username:       remote.Username,
			UsernameFolded: fold.String(remote.Username),
			DisplayName:    remote.DisplayName,
		}
		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "username_folded", "display_name", "updated_at",
			}),
		}).Create(&user).Error; err != nil {
			failed++
			log.Printf("[SYNC] Failed to upsert arcade_user (external_id=%q): %v", remote.ExternalID, err)
			continue
		}
		upserted++

		for _, chatID := range remote.ChatIDs {
			member := models.ChatMember{
				ID:             uuid.NewString(),
				ChatID:         chatID,
				ExternalUserID: remote.ExternalID,
			}
			if err := w.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error; err != nil {
				log.Printf("[SYNC] Failed to upsert chat_member (chat=%d user=%q): %v", chatID, remote.ExternalID, err)
			}
		}
	}

	log.Printf("[SYNC] Synced %d user(s) (%d upserted, %d errors) since %s",
		len(response.Users), upserted, failed, since.UTC().Format(time.RFC3339))
	return nil
}
