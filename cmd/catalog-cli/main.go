package main

import (
	"log/slog"
	"os"
	"updatecatalog/cmd/catalog-cli/commands"
	"updatecatalog/lib/osutil"
	"updatecatalog/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "catalog-cli")
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to set up tracing", "err", err)
	}
	defer tel.Shutdown(ctx)

	commands.ExecuteContext(ctx)
}
