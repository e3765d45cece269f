package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daniil11ru/geotracker/cli/receiver/api"
	apirepo "github.com/daniil11ru/geotracker/cli/receiver/api/repository"
	"github.com/daniil11ru/geotracker/cli/receiver/config"
	"github.com/daniil11ru/geotracker/cli/receiver/domain"
	"github.com/daniil11ru/geotracker/cli/receiver/source"
	"github.com/daniil11ru/geotracker/cli/receiver/storage"
	"github.com/daniil11ru/geotracker/cli/receiver/util"
	"github.com/robfig/cron/v3"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	configFilePath := ""
	flag.StringVar(&configFilePath, "c", "", "")
	flag.Parse()
	settings, err := getConfig(configFilePath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		return
	}

	configureLogging(settings)

	primarySource, err := source.NewDefaultPrimary(settings.CSVFilePath)
	if err != nil {
		log.Fatalf("Failed to initialize the location store: %v", err)
		return
	}

	sink := loadSinks(settings)
	if sink != nil {
		defer sink.Close()
	}

	saveLocation := &domain.SaveLocation{Primary: primarySource, Sink: asSink(sink)}

	scheduleSummary(primarySource, settings.SummaryCron)

	businessDataRepository := apirepo.NewBusinessDataDefault(primarySource)
	additionalDataRepository := apirepo.NewAdditionalDataDefault(settings.RoutesFilePath, settings.StopsFilePath)

	handler := api.NewHandler(saveLocation, businessDataRepository, additionalDataRepository, settings.GetStreamPollInterval())
	controller := api.NewController(handler, settings.StaticDir)

	log.Infof("Starting the receiver on %s", settings.GetListenAddress())
	if err := controller.Run(settings.GetListenAddress()); err != nil {
		log.Fatal(err)
	}
}

func getConfig(configFilePath string) (config.Settings, error) {
	var c config.Settings
	var err error

	if configFilePath == "" {
		return c, &util.ErrorString{S: "config path is not set"}
	}

	c, err = config.New(configFilePath)
	if err != nil {
		return c, fmt.Errorf("failed to parse config: %v", err)
	}

	return c, nil
}

func configureLogging(settings config.Settings) {
	log.SetLevel(settings.GetLogLevel())

	consoleFmt := &log.TextFormatter{ForceColors: true, FullTimestamp: false}
	log.SetFormatter(consoleFmt)
	log.SetOutput(os.Stdout)

	if settings.LogFilePath != "" {
		logDir := filepath.Dir(settings.LogFilePath)
		if _, err := os.Stat(logDir); os.IsNotExist(err) {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				log.Fatalf("Failed to create the log directory: %v", err)
			}
		}

		lumberjackLogger := &lumberjack.Logger{
			Filename:   settings.LogFilePath,
			MaxSize:    100,
			MaxBackups: 366,
			MaxAge:     settings.LogMaxAgeDays,
			Compress:   true,
		}

		fileFmt := &log.TextFormatter{DisableColors: true, FullTimestamp: true}
		hook := lfshook.NewHook(lfshook.WriterMap{
			log.PanicLevel: lumberjackLogger,
			log.FatalLevel: lumberjackLogger,
			log.ErrorLevel: lumberjackLogger,
			log.WarnLevel:  lumberjackLogger,
			log.InfoLevel:  lumberjackLogger,
			log.DebugLevel: lumberjackLogger,
			log.TraceLevel: lumberjackLogger,
		}, fileFmt)

		log.AddHook(hook)
	}
}

// loadSinks builds the export fan-out when the config names any
// storage backends. Returns nil when no backends are configured.
func loadSinks(settings config.Settings) *storage.AsyncRepository {
	if len(settings.Store) == 0 {
		return nil
	}

	repo := storage.NewRepository()
	if err := repo.LoadStorages(settings.Store); err != nil {
		log.Fatalf("Failed to initialize the export sinks: %v", err)
		return nil
	}

	log.Infof("Export sinks are configured: %d backend(s)", len(settings.Store))
	return storage.NewAsyncRepository(repo, settings.SinkBuffer, settings.SinkWorkers)
}

// asSink keeps the Sink field a typed nil-free interface value.
func asSink(async *storage.AsyncRepository) domain.Sink {
	if async == nil {
		return nil
	}
	return async
}

func scheduleSummary(primarySource source.Primary, cronExpression string) {
	summary := domain.StoreSummary{Primary: primarySource}
	c := cron.New()
	if _, err := c.AddFunc(cronExpression, func() { summary.Run() }); err != nil {
		log.Errorf("Failed to schedule the daily store summary: %v", err)
		return
	}
	c.Start()
	log.Info("Scheduled the daily store summary")
}
