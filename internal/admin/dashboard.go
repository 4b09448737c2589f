// Package admin derives the operator dashboard from the two record stores:
// statistics and pagination over reservations, read/unread actions over
// notifications. Everything is recomputed on read; nothing here owns state.
package admin

import (
	"context"
	"time"

	"prelaunch/internal/notification"
	"prelaunch/internal/reservation"
)

// PageSize is the fixed number of reservations per dashboard page.
const PageSize = 10

// Stats are the dashboard headline numbers.
type Stats struct {
	Total               int    `json:"total"`
	ThisWeek            int    `json:"thisWeek"`
	MostPopularInterest string `json:"mostPopularInterest"`
}

// Dashboard is the read-side view-model over both stores.
type Dashboard struct {
	reservations  *reservation.Store
	notifications *notification.Store
}

func NewDashboard(reservations *reservation.Store, notifications *notification.Store) *Dashboard {
	return &Dashboard{reservations: reservations, notifications: notifications}
}

// Stats computes the totals as of now. thisWeek counts records created
// strictly after now minus seven days. The most popular interest breaks ties
// by first encounter during aggregation and is "N/A" with no records.
func (d *Dashboard) Stats(now time.Time) Stats {
	records := d.reservations.All()

	weekAgo := now.AddDate(0, 0, -7)
	thisWeek := 0
	for _, rec := range records {
		if rec.CreatedAt.After(weekAgo) {
			thisWeek++
		}
	}

	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		for _, interest := range rec.Interests {
			if _, seen := counts[interest]; !seen {
				order = append(order, interest)
			}
			counts[interest]++
		}
	}
	mostPopular := "N/A"
	best := 0
	for _, interest := range order {
		if counts[interest] > best {
			best = counts[interest]
			mostPopular = interest
		}
	}

	return Stats{
		Total:               len(records),
		ThisWeek:            thisWeek,
		MostPopularInterest: mostPopular,
	}
}

// TotalPages reports how many pages the reservation list spans.
func (d *Dashboard) TotalPages() int {
	return (d.reservations.Len() + PageSize - 1) / PageSize
}

// Page re-slices the in-memory collection for a 1-based page index. Indexes
// below 1 clamp to the first page; past the end yields an empty page.
func (d *Dashboard) Page(n int) []reservation.Reservation {
	if n < 1 {
		n = 1
	}
	records := d.reservations.All()
	start := (n - 1) * PageSize
	if start >= len(records) {
		return nil
	}
	end := start + PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// Notifications returns all notifications, most recent first.
func (d *Dashboard) Notifications() []notification.Notification {
	return d.notifications.All()
}

// Unread returns the unread notifications.
func (d *Dashboard) Unread() []notification.Notification {
	return d.notifications.Unread()
}

// UnreadCount reports the unread notification count.
func (d *Dashboard) UnreadCount() int {
	return d.notifications.UnreadCount()
}

// MarkNotificationRead marks a single notification as read.
func (d *Dashboard) MarkNotificationRead(ctx context.Context, id string) {
	d.notifications.MarkRead(ctx, id)
}

// MarkAllNotificationsRead marks every notification as read.
func (d *Dashboard) MarkAllNotificationsRead(ctx context.Context) {
	d.notifications.MarkAllRead(ctx)
}
