package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/servizzmalta/directory-cli/internal/combo"
	"github.com/servizzmalta/directory-cli/internal/data"
)

var combosCmd = &cobra.Command{
	Use:   "combos",
	Short: "Report which category+location combos qualify for publication",
	RunE:  runCombos,
}

func init() {
	rootCmd.AddCommand(combosCmd)
}

func runCombos(cmd *cobra.Command, _ []string) error {
	site, err := data.Load(cfg.Paths.DataDir, cfg.Paths.CombosDir)
	if err != nil {
		return eris.Wrap(err, "combos: load site data")
	}

	evaluator := combo.NewEvaluator(site)
	qualified := evaluator.Qualified()

	for _, qc := range qualified {
		fmt.Printf("%-20s %-20s score=%d\n", qc.CategorySlug, qc.LocationSlug, qc.QualityScore)
	}
	fmt.Printf("%d qualified combos of %d categories x %d locations\n",
		len(qualified), len(site.Categories), len(site.Locations))
	return nil
}
