package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/servizzmalta/directory-cli/internal/catalog"
	"github.com/servizzmalta/directory-cli/internal/data"
	"github.com/servizzmalta/directory-cli/internal/selector"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Print the expanded image slot catalog",
	Long: `Expand the site structure into the flat slot list the sync command
resolves, and print each slot's intent class and query plan. Useful when
tuning component-map queries or debugging why a slot keeps falling back.`,
	RunE: runSlots,
}

func init() {
	slotsCmd.Flags().String("intent", "", "only show slots of this intent class (service, locality, hybrid)")
	rootCmd.AddCommand(slotsCmd)
}

func runSlots(cmd *cobra.Command, _ []string) error {
	intentFilter, _ := cmd.Flags().GetString("intent")

	site, err := data.Load(cfg.Paths.DataDir, cfg.Paths.CombosDir)
	if err != nil {
		return eris.Wrap(err, "slots: load site data")
	}

	slots := catalog.Build(site)
	shown := 0
	for _, slot := range slots {
		if intentFilter != "" && string(slot.Intent.Class) != intentFilter {
			continue
		}
		shown++
		fmt.Printf("%-40s %-9s queries: %s\n",
			slot.ID, slot.Intent.Class, strings.Join(selector.Plan(slot), " | "))
	}

	fmt.Printf("%d slots", len(slots))
	if intentFilter != "" {
		fmt.Printf(" (%d shown)", shown)
	}
	fmt.Println()
	return nil
}
