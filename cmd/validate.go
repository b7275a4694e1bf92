package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/servizzmalta/directory-cli/internal/manifest"
	"github.com/servizzmalta/directory-cli/internal/quality"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate image manifest coverage and files before a deploy",
	Long: `Check the synced image manifest against the release quality gate:

  - every referenced jpg/webp variant file exists under the public dir
  - non-fallback entries reference real webp sources
  - selected coverage clears the configured minimums, overall and for the
    home page and the service/locality intent classes

Minimums come from config or the PEXELS_MIN_*_COVERAGE environment
variables. With --strict any issue fails the command; without it issues are
reported but the exit code stays zero, which suits iterative local runs.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("strict", false, "exit non-zero on any issue")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	strict, _ := cmd.Flags().GetBool("strict")

	m := manifest.Load(cfg.Paths.ManifestPath)
	result := quality.Evaluate(m, cfg.Paths.PublicDir, cfg.Coverage)

	s := result.Stats
	fmt.Printf("validate: total=%d selected=%d fallback=%d coverage=%.2f home=%.2f service=%.2f locality=%.2f\n",
		s.Total, s.Selected, s.Fallback,
		s.SelectedCoverage, s.HomeCoverage, s.ServiceCoverage, s.LocalityCoverage)

	if !result.Passed() {
		fmt.Println("validate: issues found:")
		for _, issue := range result.Issues {
			fmt.Printf("- %s\n", issue)
		}
		if strict {
			return eris.Errorf("validate: %d issues with --strict", len(result.Issues))
		}
	}
	return nil
}
