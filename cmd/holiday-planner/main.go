package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/username/holiday-planner/internal/config"
	"github.com/username/holiday-planner/internal/daemon"
	"github.com/username/holiday-planner/internal/holiday"
	"github.com/username/holiday-planner/internal/planner"
	"github.com/username/holiday-planner/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "holiday-planner",
		Short: "Rolling three-month holiday calendar",
		Long:  "Serve a rolling three-month calendar with public and company holiday highlighting",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Daemon.LogFile != "" {
				logger, err = initFileLogger(cfg.Daemon.LogFile, cfg.Daemon.LogLevel)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the calendar server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			p, err := initializePlanner(cfg)
			if err != nil {
				return err
			}

			srv := server.New(p, logger)
			addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

			d := daemon.NewDaemon(p, addr, srv.Router(), cfg.Daemon.SystemTray, logger)

			logger.Info("Starting holiday planner",
				zap.String("addr", addr),
				zap.String("source", cfg.Source.Type),
				zap.String("country", cfg.Source.Country))

			return d.Start()
		},
	}
}

func initializePlanner(cfg *config.Config) (*planner.Planner, error) {
	workHolidays := make([]holiday.Holiday, 0, len(cfg.Source.WorkHolidays))
	for _, wh := range cfg.Source.WorkHolidays {
		workHolidays = append(workHolidays, holiday.Holiday{
			Date: wh.Date,
			Name: wh.Name,
			Type: holiday.TypeWork,
		})
	}

	var source holiday.Source

	switch cfg.Source.Type {
	case "remote":
		logger.Info("Using remote public holiday API")
		source = holiday.NewRemoteSource(
			cfg.Source.APIURL,
			cfg.Source.BlockedCountries,
			logger,
		)

	case "static":
		logger.Info("Using built-in holiday tables")
		source = holiday.NewStaticSource(workHolidays, logger)

	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Source.Type)
	}

	return planner.New(
		source,
		workHolidays,
		cfg.Source.Country,
		cfg.Calendar.GetWeekStart(),
		nil,
		logger,
	), nil
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
