package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/meghashyamc/protocolnav/api"
	"github.com/meghashyamc/protocolnav/app"
	"github.com/meghashyamc/protocolnav/config"
	"github.com/meghashyamc/protocolnav/db/searchdb"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/meghashyamc/protocolnav/services/reference"
	"github.com/meghashyamc/protocolnav/services/search"
	"github.com/spf13/cobra"
)

var (
	env     string
	verbose bool
)

func main() {
	godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "protocolnav",
		Short: "Search protocols and follow their cross-references",
		Long: `protocolnav indexes a corpus of clinical protocols and serves
fuzzy search over it, along with links between protocols that mention
each other by title or by number.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "config environment (defaults to $ENV, then local)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level instead of errors only")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(refsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(env)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return api.Run(context.Background(), cfg)
		},
	}
}

func searchCmd() *cobra.Command {
	var (
		categories []string
		mode       string
		limit      int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the corpus; without a query, list it",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, core, log, err := loadCore()
			if err != nil {
				return err
			}

			searchMode, err := search.ParseMode(mode)
			if err != nil {
				return err
			}

			service := core.Search(log)
			if searchMode == search.ModeFulltext {
				fulltext, err := searchdb.New(log)
				if err != nil {
					return err
				}
				defer fulltext.Close()
				if err := fulltext.BuildIndex(searchdb.FromCorpus(core.Index.All())); err != nil {
					return err
				}
				service = search.New(log, core.Engine, core.Index, fulltext)
			}

			if err := checkCategories(core, categories); err != nil {
				return err
			}

			response, err := service.Search(cmd.Context(), strings.Join(args, " "), categories, searchMode, limit, 0)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), response)
			}
			printResults(cmd.OutOrStdout(), response, cfg.GetSearchThreshold())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "only list documents in every given category")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(search.ModeFuzzy), "fuzzy or fulltext")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results, 0 for all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}

func refsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "refs [id]",
		Short: "Print a protocol with its references to other protocols highlighted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, core, log, err := loadCore()
			if err != nil {
				return err
			}

			references := core.References(log)
			doc, err := references.Document(args[0])
			if err != nil {
				return err
			}
			segments, err := references.Linkify(cmd.Context(), doc.ID)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"document": doc, "segments": segments})
			}

			out := cmd.OutOrStdout()
			color.New(color.Bold).Fprintf(out, "%s  %s\n", doc.ID, doc.Title)
			fmt.Fprintln(out, renderSegments(segments))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the document and its segments as JSON")

	return cmd
}

func loadCore() (*config.Config, *app.Core, logger.Logger, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := "error"
	if verbose {
		level = cfg.GetLogLevel()
	}
	log := logger.New(level)

	core, err := app.NewCore(log, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, core, log, nil
}

func checkCategories(core *app.Core, categories []string) error {
	known := core.CategoryIDs()
	for _, category := range categories {
		found := false
		for _, id := range known {
			if id == category {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown category %q (known: %s)", category, strings.Join(known, ", "))
		}
	}
	return nil
}

func printResults(out io.Writer, response *search.Response, threshold float64) {
	if len(response.Results) == 0 {
		color.New(color.FgYellow).Fprintln(out, "no matching protocols")
		return
	}

	idColor := color.New(color.FgCyan, color.Bold)
	for _, result := range response.Results {
		idColor.Fprintf(out, "%-8s", result.Document.ID)
		fmt.Fprintf(out, " %s", result.Document.Title)
		if len(result.Document.Categories) > 0 {
			color.New(color.Faint).Fprintf(out, "  [%s]", strings.Join(result.Document.Categories, ", "))
		}
		fmt.Fprintln(out)
	}
	color.New(color.Faint).Fprintf(out, "%d of %d shown (threshold %.2f)\n", len(response.Results), response.Total, threshold)
}

// renderSegments prints references as "text→id" in colour and literal text as is.
func renderSegments(segments []reference.Segment) string {
	link := color.New(color.FgCyan, color.Underline)
	target := color.New(color.Faint)

	var builder strings.Builder
	for _, segment := range segments {
		if !segment.IsReference() {
			builder.WriteString(segment.Text)
			continue
		}
		builder.WriteString(link.Sprint(segment.Text))
		builder.WriteString(target.Sprint("→" + segment.TargetID))
	}
	return builder.String()
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
