package config

/*
Configuration file description.
*/

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"gopkg.in/yaml.v2"
)

type Settings struct {
	Host              string                       `yaml:"host"`
	Port              string                       `yaml:"port"`
	LogLevel          string                       `yaml:"log_level"`
	LogFilePath       string                       `yaml:"log_file_path"`
	LogMaxAgeDays     int                          `yaml:"log_max_age_days"`
	CSVFilePath       string                       `yaml:"csv_file"`
	RoutesFilePath    string                       `yaml:"routes_file"`
	StopsFilePath     string                       `yaml:"stops_file"`
	StaticDir         string                       `yaml:"static_dir"`
	StreamPollSeconds int                          `yaml:"stream_poll_seconds"`
	SinkBuffer        int                          `yaml:"sink_buffer"`
	SinkWorkers       int                          `yaml:"sink_workers"`
	SummaryCron       string                       `yaml:"summary_cron"`
	Store             map[string]map[string]string `yaml:"storage"`
}

func (s *Settings) GetListenAddress() string {
	return s.Host + ":" + s.Port
}

func (s *Settings) GetStreamPollInterval() time.Duration {
	return time.Duration(s.StreamPollSeconds) * time.Second
}

func (s *Settings) GetLogLevel() log.Level {
	var lvl log.Level

	switch s.LogLevel {
	case "DEBUG":
		lvl = log.DebugLevel
	case "INFO":
		lvl = log.InfoLevel
	case "WARN":
		lvl = log.WarnLevel
	case "ERROR":
		lvl = log.ErrorLevel
	default:
		lvl = log.InfoLevel
	}
	return lvl
}

func New(confPath string) (Settings, error) {
	c := Settings{}
	data, err := os.ReadFile(confPath)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, err
	}

	if c.Port == "" {
		c.Port = "8055"
	}
	if c.CSVFilePath == "" {
		c.CSVFilePath = "locations.csv"
	}
	if c.RoutesFilePath == "" {
		c.RoutesFilePath = "routes.json"
	}
	if c.StopsFilePath == "" {
		c.StopsFilePath = "stops.csv"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.SummaryCron == "" {
		c.SummaryCron = "0 3 * * *"
	}

	if c.StreamPollSeconds == 0 {
		c.StreamPollSeconds = 1
	}
	if c.StreamPollSeconds < 0 {
		log.Errorf("Invalid stream_poll_seconds (%d). Value must be positive. Defaulting to 1.", c.StreamPollSeconds)
		c.StreamPollSeconds = 1
	}

	if c.SinkBuffer <= 0 {
		c.SinkBuffer = 64
	}

	return c, err
}
