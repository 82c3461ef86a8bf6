package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postboard/internal/config"
	"postboard/internal/eventbus"
	"postboard/internal/generator"
	"postboard/internal/logging"
	"postboard/internal/posts"
	"postboard/internal/ui"
	"postboard/internal/ui/views"
)

var (
	configPath   string
	initialPosts int
	seed         uint64
	logFile      string
	debug        bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "postboard",
	Short: "Browse and search a board of generated posts",
	Long: `postboard generates a board of synthetic posts and lets you search,
add and clear them from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogFile, debug)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBoard,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default configuration file",
	// Skip the root pre-run: the file may not exist or may be broken
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runInitConfig,
}

var dumpCmd = &cobra.Command{
	Use:   "dump [query]",
	Short: "Print the generated posts, optionally filtered by a query",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default is the user config dir)")
	rootCmd.PersistentFlags().IntVarP(&initialPosts, "posts", "n", posts.DefaultInitialCount, "number of posts to generate at start")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "generator seed (0 for random)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(initConfigCmd, dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configService() config.ConfigService {
	if configPath != "" {
		return config.NewConfigServiceForPath(configPath)
	}
	return config.NewConfigService()
}

// loadConfig reads the config file and applies flags the user set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loaded, err := configService().Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("posts") {
		loaded.InitialPosts = initialPosts
	}
	if flags.Changed("seed") {
		loaded.Seed = seed
	}
	if flags.Changed("log-file") {
		loaded.LogFile = logFile
	}
	if err := loaded.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

func newStore(bus eventbus.EventBus) *posts.Store {
	return posts.New(
		generator.NewHacker(cfg.Seed),
		posts.WithInitialCount(cfg.InitialPosts),
		posts.WithBus(bus),
		posts.WithLogger(logger.Named("posts")),
	)
}

func runBoard(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New(logger.Named("bus"))
	store := newStore(bus)

	ctx, release := posts.Provide(ctx, store)
	defer release()

	model, err := ui.NewModel(ctx, cfg, bus, logger.Named("ui"))
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	logger.Info("starting board", zap.Int("posts", store.Len()), zap.Uint64("seed", cfg.Seed))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("program exited with error", zap.Error(err))
		return fmt.Errorf("error running program: %w", err)
	}
	logger.Info("board exited", zap.Int("posts", store.Len()), zap.String("query", store.Query()))
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	svc := configService()
	if _, err := os.Stat(svc.Path()); err == nil {
		return fmt.Errorf("config file already exists: %s", svc.Path())
	}
	if err := svc.Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", svc.Path())
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	store := newStore(eventbus.NullBus{})
	ctx, release := posts.Provide(context.Background(), store)
	defer release()

	if len(args) == 1 {
		posts.Use(ctx).SetQuery(args[0])
	}
	return writePosts(ctx, cmd.OutOrStdout())
}

func writePosts(ctx context.Context, w io.Writer) error {
	store, err := posts.FromContext(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, views.PlainText(store.VisiblePosts()))
	return err
}
