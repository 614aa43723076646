package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrferreira/mrferreira-web/cmd"
	"github.com/mrferreira/mrferreira-web/internal/buildinfo"
	"github.com/mrferreira/mrferreira-web/internal/conf"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// Set with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings := &conf.Settings{}
	build := buildinfo.NewContext(version, buildDate)

	rootCmd := cmd.RootCommand(settings, build)
	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Global().Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
