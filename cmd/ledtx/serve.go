package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matt-g-everett/ledtx/api"
	"github.com/matt-g-everett/ledtx/internal/logging"
	"github.com/matt-g-everett/ledtx/internal/metrics"
	"github.com/matt-g-everett/ledtx/stream"
	"github.com/matt-g-everett/ledtx/transition"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream frames to the LED receiver",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")

			cfg, err := stream.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			logger, err := logging.New(os.Stderr, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().String("config", "config.yaml", "YAML config file")
	return cmd
}

func serve(ctx context.Context, cfg stream.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mqtt.ERROR = zap.NewStdLog(logger.Named("mqtt"))
	logger.Info("Config loaded",
		zap.String("broker", cfg.Mqtt.URL),
		zap.String("topic", cfg.Mqtt.Topics.Stream),
		zap.Int("pixels", cfg.Stream.Pixels),
		zap.Duration("crossfade", cfg.Stream.Crossfade.Duration),
		zap.String("easing", cfg.Stream.Crossfade.Easing))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	frames := transition.NewFrameQueue()
	clock := transition.NewMonotonicClock()
	controller, err := stream.NewController(cfg.Stream, frames, clock, logger.Named("controller"), m)
	if err != nil {
		return err
	}

	options := mqtt.NewClientOptions().
		AddBroker(cfg.Mqtt.URL).
		SetClientID(cfg.Mqtt.ClientID).
		SetUsername(cfg.Mqtt.Username).
		SetPassword(cfg.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) {
			logger.Info("Connected", zap.String("broker", cfg.Mqtt.URL))
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn("Connection lost", zap.Error(err))
		})
	client := mqtt.NewClient(options)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Mqtt.URL, token.Error())
	}
	defer client.Disconnect(250)

	streamer := stream.NewStreamer(cfg, client, controller, frames, clock, logger.Named("streamer"), m)
	server := api.NewApi(controller, cfg.Server.StaticDir, reg, logger.Named("api"))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		controller.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		streamer.Run(ctx)
	}()

	err = server.Serve(ctx, cfg.Server.Addr)
	if err != nil {
		logger.Error("HTTP server stopped", zap.Error(err))
	}
	cancel()
	wg.Wait()
	logger.Info("Stopped")
	return err
}
