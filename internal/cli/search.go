package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linlv/internal/domain"
	"github.com/MrSnakeDoc/linlv/internal/sources/catalogfile"
)

// catalogFlag registers --catalog, defaulting to LINLV_CATALOG_FILE.
func catalogFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVar(dst, "catalog", os.Getenv("LINLV_CATALOG_FILE"), "YAML catalog file (default: embedded catalog)")
}

// NewSearchCmd creates the 'search' command.
func NewSearchCmd() *cobra.Command {
	var (
		category    string
		catalogFile string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "search [keywords...]",
		Short: "Filter the catalog by category and keyword",
		Long: `Show the records of one category, or search every category when keywords
are given. Keywords match title, description and tags, case-insensitively.`,
		Example: `  linlv search                   # national parks
  linlv search --category academic
  linlv search campus            # searches all categories`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := catalogfile.LoadCatalog(catalogFile)
			if err != nil {
				return err
			}

			state := domain.DefaultViewState()
			if category != "" {
				id := domain.CategoryID(strings.ToLower(category))
				if !domain.IsDataCategory(id) {
					return fmt.Errorf("unknown category %q", category)
				}
				state = state.SelectCategory(id)
			}
			state = state.SetQuery(strings.Join(args, " "))

			records := state.Visible(catalog)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			printRecords(cmd.OutOrStdout(), state.Title(catalog), records)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category to browse (parks, policy, academic, career)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	catalogFlag(cmd, &catalogFile)

	return cmd
}

func printRecords(w io.Writer, title string, records []domain.ResourceRecord) {
	fmt.Fprintf(w, "%s (%d):\n\n", title, len(records))
	if len(records) == 0 {
		fmt.Fprintln(w, "  No resources found.")
		return
	}
	for _, r := range records {
		fmt.Fprintf(w, "  [%s] %s\n", r.ID, r.Title)
		fmt.Fprintf(w, "    %s\n", r.URL)
		if len(r.Tags) > 0 {
			fmt.Fprintf(w, "    Tags: %s\n", strings.Join(r.Tags, ", "))
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
