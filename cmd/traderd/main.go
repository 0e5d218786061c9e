package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	pg "github.com/csgotrader/trader-server/pkg/database/postgres"
	"github.com/csgotrader/trader-server/pkg/float/csgofloat"
	"github.com/csgotrader/trader-server/pkg/metrics"
	"github.com/csgotrader/trader-server/pkg/pricing/csgotrader"
	"github.com/csgotrader/trader-server/pkg/reputation/steamrep"
	"github.com/csgotrader/trader-server/pkg/steam/web"
	alarm_cron "github.com/csgotrader/trader-server/pkg/trader/alarm/cron"
	browser_logging "github.com/csgotrader/trader-server/pkg/trader/browser/logging"
	"github.com/csgotrader/trader-server/pkg/trader/coordinator"
	"github.com/csgotrader/trader-server/pkg/trader/data"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
	"github.com/csgotrader/trader-server/pkg/trader/notification"
	notification_logging "github.com/csgotrader/trader-server/pkg/trader/notification/logging"
	"github.com/csgotrader/trader-server/pkg/trader/server"
)

type baseConfig struct {
	LogLevel string `mapstructure:"log_level"`

	AppName string `mapstructure:"app_name"`

	ListenAddress string `mapstructure:"listen_address"`

	DbUser     string `mapstructure:"db_user"`
	DbPassword string `mapstructure:"db_password"`
	DbHost     string `mapstructure:"db_host"`
	DbPort     int    `mapstructure:"db_port"`
	DbName     string `mapstructure:"db_name"`

	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`
}

var defaultConfig = baseConfig{
	LogLevel:      "info",
	AppName:       "traderd",
	ListenAddress: ":8085",
	DbPort:        5432,
}

var configPath = flag.String("config", "config.yaml", "configuration file path")

func main() {
	flag.Parse()

	log := logrus.StandardLogger().WithField("service", "traderd")

	config, err := loadConfig()
	if err != nil {
		log.WithError(err).Error("failed to load config")
		os.Exit(1)
	}

	if level, err := logrus.ParseLevel(config.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	var metricsProvider *newrelic.Application
	if len(config.NewRelicLicenseKey) > 0 {
		metricsProvider, err = newrelic.NewApplication(
			newrelic.ConfigFromEnvironment(),
			newrelic.ConfigAppName(config.AppName),
			newrelic.ConfigLicense(config.NewRelicLicenseKey),
		)
		if err != nil {
			log.WithError(err).Error("error connecting to new relic")
			os.Exit(1)
		}
	}

	var dataProvider data.Provider
	if config.DbHost != "" {
		dataProvider, err = data.NewDatabaseProvider(&pg.Config{
			User:     config.DbUser,
			Password: config.DbPassword,
			Host:     config.DbHost,
			Port:     config.DbPort,
			DbName:   config.DbName,
		})
		if err != nil {
			log.WithError(err).Error("failed to connect to db")
			os.Exit(1)
		}
	} else {
		log.Warn("no db configured, state is in memory only")
		dataProvider = data.NewTestDataProvider()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if metricsProvider != nil {
		ctx = metrics.WithProvider(ctx, metricsProvider)
	}

	steamClient := web.NewClient(nil)
	browserSurface := browser_logging.New()
	scheduler := alarm_cron.NewScheduler()
	dispatcher := notification.NewDispatcher(dataProvider, notification_logging.New())

	coordinatorService := coordinator.New(
		dataProvider,
		steamClient,
		csgotrader.NewClient(),
		scheduler,
		dispatcher,
		browserSurface,
		coordinator.WithEnvConfigs(),
	)

	go func() {
		if err := scheduler.Start(ctx, coordinatorService.HandleAlarm); err != nil {
			log.WithError(err).Error("scheduler terminated")
		}
	}()

	// A fresh settings table means this is a first run, anything else
	// is treated like an update so newly added settings get backfilled.
	reason := coordinator.ReasonUpdate
	if _, err := dataProvider.GetSetting(ctx, settings.KeyCurrency); err == settings.ErrSettingNotFound {
		reason = coordinator.ReasonInstall
	}
	coordinatorService.HandleInstalled(ctx, reason)

	bridge := server.NewBridge(
		dataProvider,
		steamClient,
		csgofloat.NewClient(),
		steamrep.NewClient(),
		coordinatorService,
		scheduler,
		browserSurface,
	)

	httpServer := &http.Server{
		Addr:    config.ListenAddress,
		Handler: server.NewRouter(bridge),
	}

	go func() {
		log.WithField("address", config.ListenAddress).Info("serving")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server terminated")
			cancel()
		}
	}()

	osSigCh := make(chan os.Signal, 1)
	signal.Notify(osSigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-osSigCh:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("failure shutting down http server")
	}
	cancel()
}

func loadConfig() (*baseConfig, error) {
	// viper.ReadInConfig only reports a missing file when it has to
	// search for one, so an explicitly set path is checked here.
	if _, err := os.Stat(*configPath); err == nil {
		viper.SetConfigFile(*configPath)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	viper.SetEnvPrefix("traderd")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if _, isConfigNotFound := err.(viper.ConfigFileNotFoundError); err != nil && !isConfigNotFound {
		return nil, err
	}

	config := defaultConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
