// ringmix mixes synthetic sample streams through per-stream ring buffers and reports how many samples were
// delivered, truncated and evicted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/iotaledger/ringmix/configuration"
	"github.com/iotaledger/ringmix/ierrors"
	"github.com/iotaledger/ringmix/loadgen"
	"github.com/iotaledger/ringmix/logger"
)

const envPrefix = "RINGMIX"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if ierrors.Is(err, flag.ErrHelp) {
			return
		}

		fmt.Fprintf(os.Stderr, "ringmix: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loadCfg, logCfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	log, err := logger.NewRootLogger(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	report, err := loadgen.Run(ctx, loadCfg, log)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(report.Streams))
	for id := range report.Streams {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		stats := report.Streams[id]
		log.Info("stream stats",
			zap.String("stream", id),
			zap.Uint64("written", stats.Written),
			zap.Uint64("read", stats.Read),
			zap.Uint64("truncated", stats.Truncated),
			zap.Uint64("evicted", stats.Evicted),
		)
	}

	return nil
}

// loadConfig merges the config file, the command line flags and the environment, in that order of precedence
// from lowest to highest for values that are set explicitly.
func loadConfig(args []string) (loadgen.Config, logger.Config, error) {
	flagSet := flag.NewFlagSet("ringmix", flag.ContinueOnError)
	flagSet.SortFlags = false

	configFile := flagSet.StringP("config", "c", "", "path to a JSON, YAML or TOML config file")
	loadgen.DefaultConfig().RegisterFlags(flagSet)

	defaultLogCfg := logger.DefaultConfig()
	flagSet.String(logger.ConfigurationKeyLevel, defaultLogCfg.Level, "the minimum enabled logging level")
	flagSet.Bool(logger.ConfigurationKeyDisableCaller, defaultLogCfg.DisableCaller, "stop annotating logs with the caller")
	flagSet.Bool(logger.ConfigurationKeyDisableStacktrace, defaultLogCfg.DisableStacktrace, "disable automatic stacktrace capturing")
	flagSet.String(logger.ConfigurationKeyEncoding, defaultLogCfg.Encoding, "the log encoding (json or console)")
	flagSet.StringSlice(logger.ConfigurationKeyOutputPaths, defaultLogCfg.OutputPaths, "the log output paths")

	if err := flagSet.Parse(args); err != nil {
		return loadgen.Config{}, logger.Config{}, err
	}

	config := configuration.New()
	if *configFile != "" {
		if err := config.LoadFile(*configFile); err != nil {
			return loadgen.Config{}, logger.Config{}, err
		}
	}

	if err := config.LoadFlagSet(flagSet); err != nil {
		return loadgen.Config{}, logger.Config{}, ierrors.Wrap(err, "loading flags")
	}

	if err := config.LoadEnvironmentVars(envPrefix); err != nil {
		return loadgen.Config{}, logger.Config{}, ierrors.Wrap(err, "loading environment")
	}

	var loadCfg loadgen.Config
	if err := config.Unmarshal("", &loadCfg); err != nil {
		return loadgen.Config{}, logger.Config{}, err
	}

	var logCfg logger.Config
	if err := config.Unmarshal("logger", &logCfg); err != nil {
		return loadgen.Config{}, logger.Config{}, err
	}

	return loadCfg, logCfg, nil
}
