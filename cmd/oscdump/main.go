// Command oscdump binds a UDP port and prints every OSC packet it receives.
// Settings come from an optional YAML config file, overridable by flags:
//
//	listen: "0.0.0.0:8765"
//	poll_interval: 10ms
//	log_level: info
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nanoosc/nanoosc/osc"
)

type config struct {
	Listen       string   `yaml:"listen"`
	PollInterval duration `yaml:"poll_interval"`
	LogLevel     string   `yaml:"log_level"`
}

// duration parses YAML values like "10ms" that yaml.v3 will not decode into
// a time.Duration on its own.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	v, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = duration(v)
	return nil
}

func defaultConfig() config {
	return config{
		Listen:       "0.0.0.0:8765",
		PollInterval: duration(10 * time.Millisecond),
		LogLevel:     "info",
	}
}

var (
	flagConfig   string
	flagListen   string
	flagInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "oscdump",
	Short: "Print every OSC packet received on a UDP port",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&flagListen, "listen", "", "local host:port to bind (overrides config)")
	rootCmd.Flags().DurationVar(&flagInterval, "interval", 0, "poll interval (overrides config)")
}

func loadConfig() (config, error) {
	cfg := defaultConfig()
	if flagConfig != "" {
		data, err := os.ReadFile(flagConfig)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", flagConfig, err)
		}
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}
	if flagInterval > 0 {
		cfg.PollInterval = duration(flagInterval)
	}
	return cfg, nil
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	server, err := osc.Listen(cfg.Listen)
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.Listen, err)
	}
	defer server.Close()
	server.SetLogger(log)

	server.SetMessageHandler(func(msg *osc.Message) {
		fmt.Println(msg)
	})
	server.SetBundleHandler(printBundle(0))

	log.Info("listening for OSC packets", "addr", cfg.Listen, "interval", time.Duration(cfg.PollInterval))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = server.Serve(ctx, time.Duration(cfg.PollInterval))
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// printBundle prints a bundle tree, indenting each nesting level.
func printBundle(depth int) func(*osc.Bundle) {
	indent := strings.Repeat("\t", depth)
	return func(b *osc.Bundle) {
		fmt.Printf("%s#bundle @%d (%d messages, %d bundles)\n", indent, uint64(b.Timetag), len(b.Messages), len(b.Bundles))
		for _, m := range b.Messages {
			fmt.Printf("%s\t%s\n", indent, m)
		}
		for _, nb := range b.Bundles {
			printBundle(depth + 1)(nb)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
