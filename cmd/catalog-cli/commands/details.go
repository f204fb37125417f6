package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(detailsCmd)
}

var detailsCmd = &cobra.Command{
	Use:   "details <update-id>",
	Short: "Print the full record of a single update.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		details, err := client.Details(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendRow(table.Row{"Update ID", details.ID})
		t.AppendRow(table.Row{"Title", details.Title})
		t.AppendRow(table.Row{"KB", details.KB})
		t.AppendRow(table.Row{"Classification", details.Classification})
		t.AppendRow(table.Row{"Last Modified", details.LastModified.Format("1/2/2006")})
		t.AppendRow(table.Row{"Size", details.Size})
		t.AppendRow(table.Row{"Description", details.Description})
		t.AppendRow(table.Row{"Architecture", details.Architecture})
		t.AppendRow(table.Row{"Products", strings.Join(details.SupportedProducts, ", ")})
		t.AppendRow(table.Row{"Languages", strings.Join(details.SupportedLanguages, ", ")})
		t.AppendRow(table.Row{"MSRC Number", details.MSRCNumber})
		t.AppendRow(table.Row{"MSRC Severity", details.MSRCSeverity})
		t.AppendRow(table.Row{"More Info", details.InfoURL})
		t.AppendRow(table.Row{"Support URL", details.SupportURL})
		t.AppendRow(table.Row{"Restart Behavior", string(details.RebootBehavior)})
		t.AppendRow(table.Row{"Requires User Input", details.RequiresUserInput})
		t.AppendRow(table.Row{"Exclusive Install", details.IsExclusiveInstall})
		t.AppendRow(table.Row{"Needs Connectivity", details.RequiresNetworkConnectivity})
		if details.UninstallNotes != "" {
			t.AppendRow(table.Row{"Uninstall Notes", details.UninstallNotes})
		}
		if details.UninstallSteps != "" {
			t.AppendRow(table.Row{"Uninstall Steps", details.UninstallSteps})
		}
		t.Render()

		if len(details.Supersedes) > 0 {
			fmt.Println("Supersedes:")
			for _, ref := range details.Supersedes {
				fmt.Printf("  %s\n", ref.Title)
			}
		}
		if len(details.SupersededBy) > 0 {
			fmt.Println("Superseded by:")
			for _, ref := range details.SupersededBy {
				fmt.Printf("  %s (%s)\n", ref.Title, ref.ID)
			}
		}
		return nil
	},
}
