package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/servizzmalta/directory-cli/internal/combo"
	"github.com/servizzmalta/directory-cli/internal/data"
	"github.com/servizzmalta/directory-cli/internal/search"
)

var searchIndexCmd = &cobra.Command{
	Use:   "searchindex",
	Short: "Build the client-side search index JSON",
	Long: `Flatten categories, locations, qualified combos and listings into the
search-index.json the site's search page loads. Combo pages below the
editorial quality bar are left out of the index, matching what actually
gets rendered.`,
	RunE: runSearchIndex,
}

func init() {
	searchIndexCmd.Flags().String("output", "", "output path (default: paths.search_index_path)")
	rootCmd.AddCommand(searchIndexCmd)
}

func runSearchIndex(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.Paths.SearchIndexPath
	}

	site, err := data.Load(cfg.Paths.DataDir, cfg.Paths.CombosDir)
	if err != nil {
		return eris.Wrap(err, "searchindex: load site data")
	}

	docs := search.BuildIndex(site, combo.NewEvaluator(site))

	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return eris.Wrap(err, "searchindex: marshal")
	}
	raw = append(raw, '\n')

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return eris.Wrapf(err, "searchindex: create dir for %s", output)
	}
	if err := os.WriteFile(output, raw, 0o644); err != nil {
		return eris.Wrapf(err, "searchindex: write %s", output)
	}

	fmt.Printf("searchindex: wrote %d documents to %s\n", len(docs), output)
	return nil
}
