package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/catalog"
)

var (
	priorityFilter string
	categoryFilter string

	newRecord analysis.Competitor
)

var enhancementsCmd = &cobra.Command{
	Use:   "enhancements",
	Short: "List suggested product enhancements, best score first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := analysis.FilterEnhancements(analysis.Enhancements(), analysis.EnhancementFilter{
			Priority: priorityFilter,
			Category: categoryFilter,
		})
		if err != nil {
			return fmt.Errorf("%w (priority: high, medium, low; category: %s)", err,
				strings.ToLower(strings.Join(analysis.EnhancementCategories, ", ")))
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), list)
		}
		printMarkdown(cmd.OutOrStdout(), enhancementsMarkdown(list))
		return nil
	},
}

var competitorsCmd = &cobra.Command{
	Use:   "competitors",
	Short: "List the competitor catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, release, err := openCatalog()
		if err != nil {
			return err
		}
		defer release()
		list := cat.List()
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), list)
		}
		printMarkdown(cmd.OutOrStdout(), competitorsMarkdown(list))
		return nil
	},
}

var addCompetitorCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a record in the SQL competitor catalog",
	Long: `add writes a competitor to the catalog database named by --db, or by
catalog.driver and catalog.dsn in the config. An existing id is updated.`,
	Example: `  analyst --db competitors.db competitors add --id rocket-chat --name Rocket.Chat --price Free`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		driver, dsn, seedBuiltins := "sqlite", dbPath, true
		if dbPath == "" {
			driver, dsn, seedBuiltins = cfg.Catalog.Driver, cfg.Catalog.DSN, cfg.Catalog.SeedBuiltins
		}
		store, err := catalog.Open(driver, dsn, seedBuiltins)
		if err != nil {
			return err
		}
		defer store.Close()

		c := newRecord
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			c.ID = analysis.Slug(c.Name)
		}
		if err := store.Add(c); err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), c)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s).\n", c.Name, c.ID)
		return nil
	},
}

func init() {
	f := addCompetitorCmd.Flags()
	f.StringVar(&newRecord.ID, "id", "", "record id (default: slug of --name)")
	f.StringVar(&newRecord.Name, "name", "", "display name")
	f.StringVar(&newRecord.URL, "url", "", "website")
	f.StringVar(&newRecord.Description, "description", "", "one-line description")
	f.StringVar(&newRecord.Pricing.Model, "model", "Subscription", "pricing model")
	f.StringVar(&newRecord.Pricing.StartingPrice, "price", "Contact Sales", "starting price, e.g. $8.75")
	f.StringVar(&newRecord.Pricing.Currency, "currency", "USD", "price currency")
	f.StringVar(&newRecord.KeyInfo.Founded, "founded", "Unknown", "founding year")
	f.StringVar(&newRecord.KeyInfo.Employees, "employees", "Unknown", "headcount")
	f.StringVar(&newRecord.KeyInfo.Funding, "funding", "Unknown", "funding")
	f.StringVar(&newRecord.KeyInfo.Headquarters, "headquarters", "Unknown", "headquarters")
	f.StringVar(&newRecord.MarketShare, "market-share", "", "market share, e.g. 12%")
	_ = addCompetitorCmd.MarkFlagRequired("name")
	competitorsCmd.AddCommand(addCompetitorCmd)

	enhancementsCmd.Flags().StringVar(&priorityFilter, "priority", "", "only this priority (high, medium, low)")
	enhancementsCmd.Flags().StringVar(&categoryFilter, "category", "", "only this category")
}

func enhancementsMarkdown(list []analysis.Enhancement) string {
	var b strings.Builder
	b.WriteString("## Suggested Enhancements\n\n")
	if len(list) == 0 {
		b.WriteString("No enhancements match these filters.\n")
		return b.String()
	}
	b.WriteString("| Score | Enhancement | Category | Priority | Effort | Impact |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, e := range list {
		fmt.Fprintf(&b, "| %.2f | %s | %s | %s | %s | %s |\n",
			e.Score(), e.Title, e.Category, e.Priority, e.Effort, e.Impact)
	}
	return b.String()
}

func competitorsMarkdown(list []analysis.Competitor) string {
	var b strings.Builder
	b.WriteString("## Competitor Catalog\n\n")
	b.WriteString("| ID | Name | Starting price | Founded | Headquarters |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, c := range list {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			c.ID, c.Name, c.Pricing.StartingPrice, c.KeyInfo.Founded, c.KeyInfo.Headquarters)
	}
	return b.String()
}
