package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
)

var (
	queryKind        string
	queryK           int
	queryMaxDistance float64
	queryJSON        bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search an index for the nearest records",
	Long: `Embeds the query text and returns the k nearest records from the
active generation of the chosen index, ordered by ascending distance.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryKind, "kind", string(domain.KindFAQ), "index kind (faq or catalogue)")
	queryCmd.Flags().IntVarP(&queryK, "limit", "k", 5, "number of results")
	queryCmd.Flags().Float64Var(&queryMaxDistance, "max-distance", 0, "drop hits beyond this squared L2 distance (0 = no cut-off)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	kind, err := domain.ParseKind(queryKind)
	if err != nil {
		return err
	}

	results, err := queryService.Query(cmd.Context(), kind, args[0], domain.QueryOptions{
		K:           queryK,
		MaxDistance: queryMaxDistance,
	})
	if errors.Is(err, domain.ErrIndexNotReady) {
		return fmt.Errorf("the %s index has not been built yet; run `shelfsearch rebuild %s` first", kind, kind)
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, results)
	}
	return outputQueryTable(cmd, results)
}

// jsonResult flattens a hit for machine consumption.
type jsonResult struct {
	Distance   float64       `json:"distance"`
	Similarity float64       `json:"similarity"`
	Record     domain.Record `json:"record"`
}

func outputQueryJSON(cmd *cobra.Command, results []domain.QueryResult) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{Distance: r.Distance, Similarity: r.Similarity, Record: r.Record}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, results []domain.QueryResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		switch rec := r.Record.(type) {
		case domain.FaqRecord:
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, rec.Question, r.Similarity)
			if answer := rec.Answer.String(); answer != "" {
				cmd.Printf("      %s\n", answer)
			}
		case domain.CatalogueRecord:
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, rec.Title, r.Similarity)
			if rec.Author != "" {
				cmd.Printf("      Author: %s\n", rec.Author)
			}
			cmd.Printf("      Copies: %d (%s", rec.Copies, rec.Availability.Status)
			if rec.Availability.Status != domain.StatusUnknown {
				cmd.Printf(", %d of %d available", rec.Availability.AvailableCopies, rec.Availability.TotalCopies)
			}
			cmd.Println(")")
		}
		cmd.Println()
	}
	return nil
}
