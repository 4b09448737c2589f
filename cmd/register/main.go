// Command register submits a pre-registration from the terminal, driving the
// same workflow, local stores and banner lifecycle the web form uses. Useful
// as a smoke client against a running server; records land in the shared
// data dir where the admin surface reads them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"prelaunch/internal/banner"
	"prelaunch/internal/notification"
	"prelaunch/internal/platform/config"
	"prelaunch/internal/platform/logger"
	"prelaunch/internal/reservation"
	"prelaunch/internal/reserve"
	"prelaunch/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	var (
		server    = flag.String("server", "http://localhost:8080", "base URL of the prelaunch server")
		name      = flag.String("name", "", "registrant name")
		email     = flag.String("email", "", "registrant email")
		interests = flag.String("interests", "", "comma-separated interest ids (habit,work,event,content,project)")
	)
	flag.Parse()

	log := logger.New()
	bus := storage.NewBroadcaster()
	ctx := context.Background()

	reservations := reservation.NewStore(ctx,
		storage.NewFileSlot(cfg.DataDir, storage.SlotReservations), bus, log)
	notifications := notification.NewStore(ctx,
		storage.NewFileSlot(cfg.DataDir, storage.SlotNotifications), bus, log)

	// Short delays keep the terminal session snappy while still exercising
	// the full show/close lifecycle.
	banners := banner.NewStore(banner.WithDelays(2*time.Second, 200*time.Millisecond))

	navigated := make(chan string, 1)
	submitter := reserve.NewSubmitter(reserve.Config{
		Endpoint:      strings.TrimRight(*server, "/") + "/api/reservation",
		Reservations:  reservations,
		Notifications: notifications,
		Banner:        banners,
		Navigate:      func(path string) { navigated <- path },
		Logger:        log,
	})

	form := reservation.Form{
		Name:      *name,
		Email:     *email,
		Interests: splitInterests(*interests),
	}

	outcome, fieldErrs := submitter.Submit(ctx, form)
	if outcome == reserve.OutcomeRejected {
		fmt.Fprintln(os.Stderr, "registration rejected:")
		for field, msg := range fieldErrs {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		os.Exit(2)
	}

	if b, ok := banners.Current(); ok {
		fmt.Printf("[%s] %s", b.Kind, b.Message)
		if b.Description != "" {
			fmt.Printf(" - %s", b.Description)
		}
		fmt.Println()
	}

	if outcome == reserve.OutcomeFailed {
		os.Exit(1)
	}

	select {
	case path := <-navigated:
		fmt.Printf("see %s%s for details\n", strings.TrimRight(*server, "/"), path)
	case <-time.After(5 * time.Second):
	}
}

func splitInterests(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
