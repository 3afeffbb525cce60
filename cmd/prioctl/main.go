// Command prioctl splits vectors into additive shares, persists and reconstructs
// them, and inspects the field parameters and proof layout.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/carlmjohnson/versioninfo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"prio-field/internal/config"
	"prio-field/internal/logging"
	"prio-field/internal/prof"
	"prio-field/internal/store"
)

// env carries the resolved configuration into subcommands.
type env struct {
	cfg *config.Config
	log *zap.Logger
	out io.Writer
	rec prof.Recorder
}

func (e *env) openStore() (*store.DB, error) {
	e.log.Debug("opening store", zap.String("path", e.cfg.Store.Path))
	return store.Open(e.cfg.Store.Path)
}

type globalFlags struct {
	configFile string
	field      int
	logLevel   string
	db         string
	key        string
}

func newRootCommand() *cobra.Command {
	var (
		gf globalFlags
		e  env
	)
	cmd := &cobra.Command{
		Use:           "prioctl",
		Short:         "Finite field secret sharing toolkit",
		Version:       versioninfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if gf.configFile != "" {
				var err error
				if cfg, err = config.LoadFile(gf.configFile); err != nil {
					return fmt.Errorf("failed to load config file: %w", err)
				}
			}
			flags := cmd.Flags()
			if flags.Changed("field") {
				cfg.Field = gf.field
			}
			if flags.Changed("log-level") {
				cfg.Logging.Level = gf.logLevel
			}
			if flags.Changed("db") {
				cfg.Store.Path = gf.db
			}
			if flags.Changed("key") {
				cfg.Key = gf.key
			}
			if err := cfg.FixupAndValidate(); err != nil {
				return err
			}
			log, err := logging.New(cfg.Logging.Level, zapcore.AddSync(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			e.cfg, e.log, e.out = cfg, log, cmd.OutOrStdout()
			log.Debug("configuration loaded", zap.Int("field", cfg.Field), zap.String("db", cfg.Store.Path))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.rec.Flush(e.log)
			_ = e.log.Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&gf.configFile, "config", "c", "", "configuration file (.toml or .yaml)")
	pf.IntVarP(&gf.field, "field", "f", 64, "field width in bits: 32, 64, 80 or 126")
	pf.StringVar(&gf.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&gf.db, "db", "prio.db", "share database path")
	pf.StringVar(&gf.key, "key", "", "seed a deterministic PRNG (testing only)")

	cmd.AddCommand(
		newSplitCommand(&e),
		newReconstructCommand(&e),
		newBatchesCommand(&e),
		newRootsCommand(&e),
		newLayoutCommand(&e),
		newSampleCommand(&e),
	)
	return cmd
}

func newSplitCommand(e *env) *cobra.Command {
	var shares int
	cmd := &cobra.Command{
		Use:   "split BATCH VALUE...",
		Short: "Split decimal values into additive shares and store them",
		Example: `  # Split three values into 3 shares over the 80-bit field
  prioctl split --field 80 -n 3 survey 1 0 42`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := e.cfg.Shares
			if cmd.Flags().Changed("shares") {
				n = shares
			}
			if n < 1 {
				return fmt.Errorf("shares must be positive, got %d", n)
			}
			o, err := opsFor(e.cfg.Field)
			if err != nil {
				return err
			}
			return o.split(e, args[0], args[1:], n)
		},
	}
	cmd.Flags().IntVarP(&shares, "shares", "n", 2, "number of shares")
	return cmd
}

func newReconstructCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reconstruct BATCH",
		Short: "Sum the stored shares of a batch and print the values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			width, err := db.Width(args[0])
			if err != nil {
				return err
			}
			o, err := opsForBytes(width)
			if err != nil {
				return err
			}
			return o.reconstruct(e, db, args[0])
		},
	}
}

func newBatchesCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "batches",
		Short: "List stored batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := e.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			names, err := db.Batches()
			if err != nil {
				return err
			}
			for _, name := range names {
				w, err := db.Width(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "%s\t%d-byte elements\n", name, w)
			}
			return nil
		},
	}
}

func newRootsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "roots",
		Short: "Print the field parameters and the root of unity table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := opsFor(e.cfg.Field)
			if err != nil {
				return err
			}
			o.roots(e)
			return nil
		},
	}
}

func newLayoutCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "layout DIMENSION",
		Short: "Print the proof vector layout for a data dimension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, err := strconv.Atoi(args[0])
			if err != nil || dim < 0 {
				return fmt.Errorf("invalid argument %q: dimension must be a non-negative integer", args[0])
			}
			o, err := opsFor(e.cfg.Field)
			if err != nil {
				return err
			}
			return o.layout(e, dim)
		},
	}
}

func newSampleCommand(e *env) *cobra.Command {
	var (
		count int
		chart string
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw uniform elements and report rejection and bucket statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("count") {
				e.cfg.Sample.Count = count
			}
			if cmd.Flags().Changed("chart") {
				e.cfg.Sample.Chart = chart
			}
			if e.cfg.Sample.Count < 1 {
				return fmt.Errorf("count must be positive, got %d", e.cfg.Sample.Count)
			}
			o, err := opsFor(e.cfg.Field)
			if err != nil {
				return err
			}
			return o.sample(e)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10000, "number of elements to draw")
	cmd.Flags().StringVar(&chart, "chart", "", "write an HTML histogram to this path")
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "prioctl:", err)
		os.Exit(1)
	}
}
