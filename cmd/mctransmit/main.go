package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/mctransmit/internal/adapters/console"
	"github.com/bft-labs/mctransmit/internal/cliconfig"
	"github.com/bft-labs/mctransmit/pkg/log"
	"github.com/bft-labs/mctransmit/pkg/mctransmit"
	"github.com/bft-labs/mctransmit/plugins/configwatcher"
)

const helpDescription = `
Send one UDP datagram to an IPv4 multicast group at a fixed interval.

Frames are written straight to the link layer, so the source MAC, source IP,
TTL (255) and ports (25000 -> 780) are exactly those built into the frame.
Each send prints one line; a send failure stops transmission.

Highlights:
  - Validates address, interval and text together and reports every problem.
  - Picks the first interface that is up, not loopback, and has a MAC and IPv4.
  - libpcap backend everywhere, AF_PACKET backend on Linux.
  - Configure via file, env (MCTRANSMIT_*), or flags; --watch restarts on edits.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  mctransmit --address 239.1.1.1 --interval 1000 --text HELLO
  mctransmit --backend afpacket --meta lab-a
  mctransmit --config $HOME/.mctransmit/config.toml --watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	var logger log.Logger = log.NewZerologAdapter(os.Stderr, "info")

	root := &cobra.Command{
		Use:          "mctransmit [label]",
		Short:        "Periodic raw-frame IPv4 multicast transmitter",
		Long:         longHelp,
		Example:      exampleUsage,
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.mctransmit/config.toml), then apply flag overrides
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if len(args) == 1 {
				cfg.Label = args[0]
			}

			loaded, err := cliconfig.Load(cfg, cfgFile, changed)
			if err != nil {
				return err
			}

			logger = log.NewZerologAdapter(os.Stderr, loaded.LogLevel)
			if loaded.Label != "" {
				logger = log.With(logger, log.String("instance", loaded.Label))
			}
			logger.Info("configuration",
				log.String("address", loaded.Address),
				log.String("interval", loaded.Interval),
				log.String("backend", loaded.Backend),
				log.Bool("watch", loaded.Watch),
			)

			return run(cmd.Context(), loaded, cfg, cfgFile, changed, logger)
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.mctransmit/config.toml)")
	root.Flags().StringVar(&cfg.Address, "address", cfg.Address, "IPv4 multicast group (224.0.0.0 - 239.255.255.255)")
	root.Flags().StringVar(&cfg.Interval, "interval", cfg.Interval, "milliseconds between sends")
	root.Flags().StringVar(&cfg.Text, "text", cfg.Text, "UDP payload text (UTF-8)")
	root.Flags().StringVar(&cfg.Backend, "backend", cfg.Backend, "link-layer backend: pcap or afpacket")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "operational log level (debug, info, warn, error)")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "restart transmission when the config file changes")
	root.Flags().BoolVar(&cfg.Meta, "meta", cfg.Meta, "print the built frame to stderr (debug)")

	if err := root.Execute(); err != nil {
		var verrs mctransmit.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				logger.Error("invalid input",
					log.Stringer("kind", fe.Kind),
					log.String("input", fe.Input),
					log.String("reason", fe.Reason),
				)
			}
		} else {
			logger.Error("mctransmit", log.Err(err))
		}
		os.Exit(1)
	}
}

// run transmits until a signal arrives or, without --watch, until the
// transmission halts on its own.
func run(ctx context.Context, cfg, base cliconfig.Config, cfgFile string, changed map[string]bool, logger log.Logger) error {
	sink := console.NewSink(os.Stdout, console.DefaultBuffer, logger)
	defer sink.Close()

	tx, err := mctransmit.New(cfg.Inputs(),
		mctransmit.WithLogger(logger),
		mctransmit.WithBackend(cfg.Backend),
		mctransmit.WithSink(sink),
	)
	if err != nil {
		return err
	}

	if err := tx.Start(); err != nil {
		return err
	}
	if cfg.Meta {
		fmt.Fprint(os.Stderr, tx.Describe())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Watch && cfgFile != "" {
		watcher := configwatcher.New(configwatcher.Config{
			Path:   cfgFile,
			Logger: logger,
			Reload: func(context.Context) error {
				next, err := cliconfig.Load(base, cfgFile, changed)
				if err != nil {
					return err
				}
				tx.Update(next.Inputs())
				if err := tx.Restart(); err != nil {
					return err
				}
				if next.Meta {
					fmt.Fprint(os.Stderr, tx.Describe())
				}
				return nil
			},
		})
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("config watching disabled", log.Err(err))
		} else {
			defer watcher.Shutdown(context.Background())
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// With --watch a halted transmission may be restarted by a later edit.
	var doneCh <-chan struct{}
	if !cfg.Watch {
		doneCh = tx.Done()
	}

	select {
	case <-sigCh:
		logger.Info("received signal, stopping...")
		return tx.Stop()
	case <-doneCh:
		if err := tx.Err(); err != nil {
			return fmt.Errorf("transmission halted: %w", err)
		}
		return nil
	}
}
