package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"prelaunch/internal/admin"
	"prelaunch/internal/mail"
	"prelaunch/internal/notification"
	"prelaunch/internal/platform/config"
	"prelaunch/internal/platform/httpserver"
	"prelaunch/internal/platform/logger"
	"prelaunch/internal/platform/metrics"
	platformredis "prelaunch/internal/platform/redis"
	"prelaunch/internal/reservation"
	reservationhandler "prelaunch/internal/reservation/handler"
	"prelaunch/internal/server"
	"prelaunch/internal/storage"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if cfg.AdminToken == config.DevAdminToken {
		log.Warn("PRELAUNCH_ADMIN_TOKEN is not set; the admin surface is guarded by the publicly known development token")
	}

	bus := storage.NewBroadcaster()

	var reservationSlot, notificationSlot storage.Slot
	if cfg.RedisURL != "" {
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			log.Error("redis connect failed", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		reservationSlot = storage.NewRedisSlot(client.Client, storage.SlotReservations)
		notificationSlot = storage.NewRedisSlot(client.Client, storage.SlotNotifications)
	} else {
		reservationSlot = storage.NewFileSlot(cfg.DataDir, storage.SlotReservations)
		notificationSlot = storage.NewFileSlot(cfg.DataDir, storage.SlotNotifications)
	}

	ctx := context.Background()
	reservations := reservation.NewStore(ctx, reservationSlot, bus, log)
	notifications := notification.NewStore(ctx, notificationSlot, bus, log)

	m := metrics.New()
	mailer := mail.NewSendGrid(cfg.SendGrid.APIKey, cfg.SiteName, cfg.SendGrid.FromEmail)

	regHandler := reservationhandler.New(mailer, cfg.SiteName, cfg.SendGrid, log, m)
	dashboard := admin.NewDashboard(reservations, notifications)
	admHandler := admin.NewHandler(dashboard, bus, log)

	router := server.NewRouter(regHandler, admHandler, cfg.AdminToken, log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting prelaunch", "addr", cfg.Addr)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
