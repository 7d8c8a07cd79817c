package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-now/internal/api/http"
	"github.com/i474232898/weather-now/internal/config"
	"github.com/i474232898/weather-now/internal/mqtt"
	"github.com/i474232898/weather-now/internal/scheduler"
)

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rt := newRuntime(cfg)
	defer rt.Close()

	publisher, err := mqtt.NewPublisher(mqtt.PublisherConfig{
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		Username:    cfg.MQTT.Username,
		Password:    cfg.MQTT.Password,
		TopicPrefix: cfg.MQTT.TopicPrefix,
		Enabled:     cfg.MQTT.Enabled,
	})
	if err != nil {
		return err
	}
	defer publisher.Close()
	if cfg.MQTT.Enabled {
		if err := publisher.PublishHomeAssistantDiscovery(); err != nil {
			log.Printf("ERROR: mqtt: %v", err)
		}
		rt.session.OnSettle(publisher.Listener())
	}

	// Scheduler that periodically reloads the forecast.
	sched := scheduler.New(cfg.RefreshInterval, rt.session)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()
	if cfg.RefreshInterval <= 0 {
		rt.session.Load()
	}

	app := httpapi.NewApp("weather-now")
	httpapi.RegisterRoutes(app, rt.session, rt.source, rt.history)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}
