// Command zfmd is an attendance gateway for one ZFM fingerprint module: it
// exposes the sensor over an HTTP API and publishes match/enroll/delete
// events to MQTT.
//
// Run it with a YAML config file, or rely on defaults and ZFMD_* variables:
//
//	zfmd -config /etc/zfmd/config.yaml
//	ZFMD_SERIAL_DEVICE=/dev/ttyAMA0 zfmd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/growsense/go-zfm/uart"
	"github.com/growsense/go-zfm/zfm"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := setupLogging(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	port, err := uart.Open(cfg.Serial.Device,
		uart.WithBaudRate(cfg.Serial.BaudRate),
		uart.WithReadTimeout(cfg.Serial.ReadTimeout),
	)
	if err != nil {
		logger.WithError(err).Fatal("open serial port")
	}
	defer port.Close()

	sensor := zfm.New(port,
		zfm.WithAddress(cfg.Serial.Address),
		zfm.WithPassword(cfg.Serial.Password),
		zfm.WithReadTimeout(cfg.Serial.ReadTimeout),
		zfm.WithEnrollCaptures(cfg.Serial.EnrollCaptures),
		zfm.WithLogger(&zfm.LogrusLogger{Logger: logger}),
	)
	if err := sensor.Init(context.Background()); err != nil {
		logger.WithError(err).WithField("device", cfg.Serial.Device).Fatal("sensor session")
	}

	var events *Publisher
	if cfg.MQTT.Enabled {
		events, err = NewPublisher(cfg.MQTT, logger)
		if err != nil {
			logger.WithError(err).Fatal("mqtt broker")
		}
		defer events.Close()
	}

	gateway := NewGateway(sensor, events, logger, cfg.HTTP)
	server := &http.Server{
		Addr:         cfg.HTTP.Listen,
		Handler:      gateway.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.WithField("listen", cfg.HTTP.Listen).Info("http api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http shutdown")
	}
}
