package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/JuanchoGithub/game-suggest/cmd/game-suggest/commands"
	"github.com/JuanchoGithub/game-suggest/lib/serviceutil"
	"github.com/JuanchoGithub/game-suggest/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(true)

	// running without a telemetry.json5 is fine, spans and metrics
	// just go nowhere
	tel, err := telemetry.SetupFromEnv(ctx, "game-suggest")
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to setup telemetry", "err", err)
	}
	defer tel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
