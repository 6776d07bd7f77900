package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/chatty/internal/config"
	"github.com/jask/chatty/internal/interrupt"
	"github.com/jask/chatty/internal/logging"
	"github.com/jask/chatty/internal/provider"
	"github.com/jask/chatty/internal/queue"
	"github.com/jask/chatty/internal/state"
	"github.com/jask/chatty/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "chatty:", err)
		os.Exit(1)
	}
}

type app struct {
	v          *viper.Viper
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "chatty",
		Short:         "Terminal chat client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger, err := logging.New(cfg.Log, a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $HOME/.config/chatty/config.toml)")
	flags.String("provider", config.ProviderMemory, "messaging backend: memory or sqlite")
	flags.String("db", "", "sqlite database path")
	flags.String("log-level", "info", "log level")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	_ = a.v.BindPFlag("provider.kind", flags.Lookup("provider"))
	_ = a.v.BindPFlag("database.path", flags.Lookup("db"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(a.seedCmd(), a.configCmd())
	return root
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the sqlite database and add the demo conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeDB, err := a.openSQLite()
			if err != nil {
				return err
			}
			defer closeDB()
			wrote, err := provider.SeedDemo(cmd.Context(), p)
			if err != nil {
				return err
			}
			if wrote {
				cmd.Printf("seeded %s\n", a.cfg.Database.Path)
			} else {
				cmd.Printf("%s already has contacts\n", a.cfg.Database.Path)
			}
			return nil
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "write [path]",
		Short: "Write the effective configuration as toml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if a.configPath != "" {
				path = a.configPath
			}
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Save(a.cfg, path); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", path)
			return nil
		},
	})
	return cmd
}

func (a *app) openSQLite() (*provider.SQLite, func(), error) {
	path := a.cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	p, db, err := provider.OpenSQLite(path, a.logger.Named("sqlite"))
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	return p, func() { _ = db.Close() }, nil
}

func (a *app) openProvider(ctx context.Context) (state.Provider, func(), error) {
	switch a.cfg.Provider.Kind {
	case config.ProviderSQLite:
		p, closeDB, err := a.openSQLite()
		if err != nil {
			return nil, nil, err
		}
		if a.cfg.Database.SeedDemo {
			if _, err := provider.SeedDemo(ctx, p); err != nil {
				closeDB()
				return nil, nil, err
			}
		}
		return p, closeDB, nil
	default:
		if a.cfg.Database.SeedDemo {
			return provider.NewDemo(), func() {}, nil
		}
		return provider.NewMemory(), func() {}, nil
	}
}

// run starts the store and the UI and waits for both. Only the interrupt
// unwinds either loop, so a loop that fails signals it before returning.
func (a *app) run(ctx context.Context, in io.Reader, out io.Writer) error {
	log := a.logger
	p, closeProvider, err := a.openProvider(ctx)
	if err != nil {
		return err
	}
	defer closeProvider()

	term := interrupt.New()
	actions := queue.New[state.Action]()
	store := state.NewStore(p,
		state.WithLogger(log.Named("store")),
		state.WithHistoryLimit(a.cfg.Provider.HistoryLimit),
	)
	ui := tui.NewManager(term, actions,
		tui.WithLogger(log.Named("ui")),
		tui.WithTickRate(a.cfg.UI.TickRate),
		tui.WithIO(in, out),
		tui.WithLayout(tui.Layout{
			ContactsWidth: a.cfg.UI.ContactsWidth,
			PopupWidth:    a.cfg.UI.PopupWidth,
			PopupHeight:   a.cfg.UI.PopupHeight,
		}),
	)

	stop := watchSignals(term, log)
	defer stop()

	fail := func(where string, err error) error {
		if serr := term.Signal(interrupt.Failed); serr != nil {
			log.Debug("signal", zap.Error(serr))
		}
		log.Error(where+" failed", zap.Error(err))
		return fmt.Errorf("%s: %w", where, err)
	}

	var g errgroup.Group
	g.Go(func() error {
		defer actions.Close()
		reason, err := store.Run(ctx, term, actions, term.Subscribe())
		if err != nil {
			return fail("store", err)
		}
		log.Info("store stopped", zap.Stringer("reason", reason))
		return nil
	})
	g.Go(func() error {
		reason, err := ui.Run(ctx, store.Snapshots(), term.Subscribe())
		if err != nil {
			return fail("ui", err)
		}
		log.Info("ui stopped", zap.Stringer("reason", reason))
		return nil
	})
	return g.Wait()
}

func watchSignals(term *interrupt.Broadcaster, log *zap.Logger) func() {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-ch:
			log.Info("signal received", zap.Stringer("signal", s))
			if err := term.Signal(interrupt.Signaled); err != nil {
				log.Debug("signal", zap.Error(err))
			}
		case <-done:
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
