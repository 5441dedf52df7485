package jobs

import (
	"context"
	"fmt"
	"slices"
	"time"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
	"storefront-library/internal/repository"
)

// reminderMarker identifies one expiry of one lend. Extending a lend changes
// its expiry, so the extended lend is reminded again.
func reminderMarker(l domain.LentGame) string {
	return l.ID + "@" + l.ExpiryDate.UTC().Format(time.RFC3339)
}

// SendLendExpiryReminders mails borrowers whose lend expires within the
// configured reminder window. Each lend expiry is reminded at most once.
func (jr *JobRunner) SendLendExpiryReminders() {
	jr.runWithRecovery("SendLendExpiryReminders", func() {
		ctx := context.Background()

		expiring, err := jr.services.Lending.ListExpiringWithin(ctx, jr.config.GetReminderWindow())
		if err != nil {
			logger.Error("Failed to list expiring lends", "error", err)
			return
		}

		sent, err := jr.store.Reminders.Load(ctx)
		if err != nil {
			logger.Error("Failed to load sent reminders", "error", err)
			return
		}

		count := 0
		for _, lend := range expiring {
			marker := reminderMarker(lend)
			if slices.Contains(sent, marker) {
				continue
			}

			title := fmt.Sprintf("game #%d", lend.GameID)
			if owned, err := jr.services.Library.GetOwned(ctx, lend.GameID); err == nil {
				title = owned.Name
			}

			if err := jr.services.Email.SendLendExpiryReminder(ctx, lend.Email, lend.FriendName, title, lend.ExpiryDate); err != nil {
				logger.Error("Failed to send lend expiry reminder",
					"lent_id", lend.ID,
					"game_id", lend.GameID,
					"email", lend.Email,
					"error", err)
				continue
			}

			err := jr.store.Reminders.Mutate(ctx, func(items []string) ([]string, error) {
				if slices.Contains(items, marker) {
					return nil, repository.ErrNoChange
				}
				return append(items, marker), nil
			})
			if err != nil {
				logger.Error("Failed to record sent reminder", "lent_id", lend.ID, "error", err)
			}

			count++
			logger.Debug("Sent lend expiry reminder",
				"lent_id", lend.ID,
				"game_id", lend.GameID,
				"expiry", lend.ExpiryDate)
		}

		logger.Info("Sent lend expiry reminders", "count", count)
	})
}

// ReportExpiredLends logs lends that have expired. Expired records stay in
// the lent list until the owner revokes them; the job also forgets reminder
// markers of lends that were revoked or extended since.
func (jr *JobRunner) ReportExpiredLends() {
	jr.runWithRecovery("ReportExpiredLends", func() {
		ctx := context.Background()

		expired, err := jr.services.Lending.ListExpired(ctx)
		if err != nil {
			logger.Error("Failed to list expired lends", "error", err)
			return
		}
		for _, lend := range expired {
			logger.Debug("Lend expired",
				"lent_id", lend.ID,
				"game_id", lend.GameID,
				"friend", lend.FriendName,
				"expiry", lend.ExpiryDate)
		}
		logger.Info("Expired lends", "count", len(expired))

		lent, err := jr.store.Lent.Load(ctx)
		if err != nil {
			logger.Error("Failed to load lends", "error", err)
			return
		}
		live := make(map[string]bool, len(lent))
		for _, l := range lent {
			live[reminderMarker(l)] = true
		}
		err = jr.store.Reminders.Mutate(ctx, func(items []string) ([]string, error) {
			kept := slices.DeleteFunc(slices.Clone(items), func(m string) bool { return !live[m] })
			if len(kept) == len(items) {
				return nil, repository.ErrNoChange
			}
			return kept, nil
		})
		if err != nil {
			logger.Error("Failed to prune reminder markers", "error", err)
		}
	})
}
