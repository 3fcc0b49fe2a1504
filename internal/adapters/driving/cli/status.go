package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status [faq|catalogue]",
	Short: "Show the serving state of the indexes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

// jsonStatus shapes an IndexStatus for machine consumption.
type jsonStatus struct {
	Kind               string `json:"kind"`
	Ready              bool   `json:"ready"`
	Building           bool   `json:"building"`
	ActiveGenerationID string `json:"active_generation_id,omitempty"`
	RecordCount        int    `json:"record_count"`
	BuiltAt            string `json:"built_at,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	kinds := domain.Kinds()
	if len(args) == 1 {
		kind, err := domain.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []domain.Kind{kind}
	}

	statuses := make([]domain.IndexStatus, 0, len(kinds))
	for _, kind := range kinds {
		status, err := rebuildService.Status(cmd.Context(), kind)
		if err != nil {
			return fmt.Errorf("status for %s: %w", kind, err)
		}
		statuses = append(statuses, status)
	}

	if statusJSON {
		out := make([]jsonStatus, len(statuses))
		for i, s := range statuses {
			out[i] = jsonStatus{
				Kind:               s.Kind.String(),
				Ready:              s.Ready,
				Building:           s.Building,
				ActiveGenerationID: s.ActiveGenerationID,
				RecordCount:        s.RecordCount,
			}
			if !s.BuiltAt.IsZero() {
				out[i].BuiltAt = s.BuiltAt.Format(time.RFC3339)
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for _, s := range statuses {
		cmd.Printf("%s:\n", s.Kind)
		if !s.Ready {
			cmd.Println("  not built")
		} else {
			cmd.Printf("  generation: %s\n", s.ActiveGenerationID)
			cmd.Printf("  records:    %d\n", s.RecordCount)
			cmd.Printf("  built at:   %s\n", s.BuiltAt.Format(time.RFC3339))
		}
		if s.Building {
			cmd.Println("  rebuild in progress")
		}
	}
	return nil
}
