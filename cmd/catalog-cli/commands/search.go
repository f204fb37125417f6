package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var maxPages *int

func init() {
	maxPages = searchCmd.Flags().Int("pages", 0, "Stop after this many result pages (0 means all).")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog and print every result page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Update ID", "Title", "Product", "Classification", "Last Updated", "Size"})

		it := client.Search(args[0])
		truncated := false
		total := 0
		for pages := 0; *maxPages == 0 || pages < *maxPages; pages++ {
			page, err := it.NextPage(cmd.Context())
			if err != nil {
				return err
			}
			if page == nil {
				break
			}
			truncated = truncated || page.Truncated
			total += page.Len()
			slog.Debug("fetched result page", "page", pages, "rows", page.Len())

			for _, u := range page.Updates {
				t.AppendRow(table.Row{
					u.ID, u.Title, u.Product, u.Classification,
					u.LastModified.Format("1/2/2006"), u.Size,
				})
			}
		}

		t.Render()
		fmt.Printf("%d updates\n", total)
		if truncated {
			fmt.Println("The catalog truncated this search, refine the query to see the remaining updates.")
		}
		return nil
	},
}
