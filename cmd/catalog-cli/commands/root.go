package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
	"updatecatalog/lib/configutil"
	"updatecatalog/lib/restyutil"
	"updatecatalog/lib/scrapers/catalog"
	"updatecatalog/lib/telemetry"

	"github.com/spf13/cobra"
)

type Config struct {
	// overrides the catalog endpoint, mainly for testing against a mock
	BaseUrl        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

var (
	verbose *bool
	dumpDir *string
)

var rootCmd = &cobra.Command{
	Use:   "catalog-cli",
	Short: "catalog-cli searches and inspects the Microsoft Update Catalog.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	dumpDir = rootCmd.PersistentFlags().String("dump", "", "Record every HTTP exchange to this directory.")
}

func newClient() (*catalog.Client, error) {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var dump restyutil.Output
	if *dumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(*dumpDir)
		if err != nil {
			return nil, err
		}
		dump = out
	}

	return catalog.NewClient(catalog.ClientOptions{
		BaseUrl: cfg.BaseUrl,
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		Dump:    dump,
	})
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
