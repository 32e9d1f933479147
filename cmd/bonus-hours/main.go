package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/username/bonus-hours/internal/calendar"
	"github.com/username/bonus-hours/internal/config"
	"github.com/username/bonus-hours/internal/schedule"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
	outWriter  io.Writer = os.Stdout
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bonus-hours",
		Short: "Incentive-pay eligibility for plant shifts",
		Long:  "Colombian public holidays, bonus-eligible shift windows and a time-entry log for production incentive pay",
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
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml, $HOME/.bonus-hours, /etc/bonus-hours)")

	rootCmd.AddCommand(
		holidaysCmd(),
		scheduleCmd(),
		checkCmd(),
		intervalCmd(),
		monthCmd(),
		vectorsCmd(),
		serveCmd(),
		watchCmd(),
		entriesCmd(),
	)

	return rootCmd
}

// loadResolver loads the config and builds a resolver from its schedule table
func loadResolver() (*config.Config, *schedule.Resolver, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	table, err := cfg.Schedule.Table()
	if err != nil {
		return nil, nil, err
	}

	return cfg, schedule.NewResolver(table, calendar.Default()), nil
}

// teeOutput mirrors command output to path until the returned func is called
func teeOutput(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tee path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open tee-output file: %w", err)
	}
	outWriter = io.MultiWriter(os.Stdout, f)
	outPrintf("📝 Output is mirrored to %s\n", path)

	return func() {
		outWriter = os.Stdout
		f.Close()
	}, nil
}

func outPrintf(format string, a ...interface{}) {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	fmt.Fprintf(outWriter, format, a...)
}

func outPrintln(a ...interface{}) {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	fmt.Fprintln(outWriter, a...)
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

	// Parse log level
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
