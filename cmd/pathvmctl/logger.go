package main

import (
	"log/slog"
	"os"
)

// cliLog is the structured diagnostics logger for mutation-time events (route table loading,
// compile failures, batch-insert rejection) -- the core engine itself never logs, since Search
// is an allocation-free hot loop, but this offline CLI layer follows the teacher's slog
// conventions for everything outside it.
var cliLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
