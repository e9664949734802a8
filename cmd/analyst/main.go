// Command analyst asks competitive-analysis questions from the terminal,
// either against an in-process engine or a running competitor-chat server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/catalog"
	"github.com/joelkehle/competitor-analysis/internal/config"
	"github.com/joelkehle/competitor-analysis/internal/logger"
	"github.com/joelkehle/competitor-analysis/internal/session"
)

var (
	cfgFile    string
	dbPath     string
	outputJSON bool
	plain      bool
	seed       uint64

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "Competitive analysis from the command line",
	Long: `analyst answers questions about competitors: overviews, SWOT,
feature matrices, pricing and market gaps.

Questions run in-process by default. Use "analyst remote" to talk to a
running competitor-chat server instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		level := cfg.Log.Level
		if !cmd.Flags().Changed("verbose") {
			level = "warn"
		}
		return logger.Init(level, cfg.Log.File)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite catalog file (default: built-in catalog)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print JSON instead of markdown")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "print raw markdown even on a terminal")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed (default: engine.seed from config, else time based)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log at the configured level instead of warn")

	rootCmd.AddCommand(askCmd, chatCmd, remoteCmd, enhancementsCmd, competitorsCmd)
}

// competitorCatalog is what the local commands need from a catalog.
type competitorCatalog interface {
	analysis.Catalog
	List() []analysis.Competitor
}

// openCatalog returns the SQL catalog when --db is set and the built-in one
// otherwise. The returned func releases it.
func openCatalog() (competitorCatalog, func(), error) {
	if dbPath == "" {
		return analysis.NewStaticCatalog(analysis.KnownCompetitors()), func() {}, nil
	}
	store, err := catalog.Open("sqlite", dbPath, true)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func newLocalStore(cat competitorCatalog) *session.Store {
	s := seed
	if s == 0 && cfg != nil {
		s = cfg.Engine.Seed
	}
	if s == 0 {
		s = timeSeed()
	}
	opportunitiesFirst := cfg != nil && cfg.Engine.OpportunitiesFirst
	engine := analysis.NewEngine(analysis.Options{Catalog: cat, OpportunitiesFirst: opportunitiesFirst})
	return session.NewStore(session.Options{Engine: engine, Catalog: cat, Seed: s})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
