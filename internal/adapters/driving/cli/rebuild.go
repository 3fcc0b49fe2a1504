package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [faq|catalogue|all]",
	Short: "Rebuild an index from its record source",
	Long: `Runs a full re-embed and re-index cycle for the chosen kind and
atomically promotes the new generation. The previous generation keeps
serving queries until promotion; a failed rebuild leaves it untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	kinds := domain.Kinds()
	if args[0] != "all" {
		kind, err := domain.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []domain.Kind{kind}
	}

	var failed bool
	for _, kind := range kinds {
		report, err := rebuildService.Rebuild(cmd.Context(), kind)
		switch {
		case errors.Is(err, domain.ErrRebuildInProgress):
			cmd.Printf("%s: a rebuild is already running, try again later\n", kind)
			failed = true
		case err != nil:
			cmd.Printf("%s: rebuild failed: %v\n", kind, err)
			failed = true
		default:
			cmd.Printf("%s: generation %s built (%d records in %s)\n",
				kind, report.GenerationID, report.RecordCount, report.Duration.Round(time.Millisecond))
		}
	}

	if failed {
		return fmt.Errorf("one or more rebuilds failed")
	}
	return nil
}
