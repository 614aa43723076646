package serve

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrferreira/mrferreira-web/internal/conf"
	"github.com/mrferreira/mrferreira-web/internal/logger"
	"github.com/mrferreira/mrferreira-web/internal/site"
	"github.com/mrferreira/mrferreira-web/internal/telemetry"
)

const telemetryFlushTimeout = 2 * time.Second

// Command creates the command that runs the web server.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web site",
		Long:  "Serve the home page, the provider list and the category pages until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := telemetry.InitSentry(settings); err != nil {
				// telemetry is optional, the site still runs
				logger.Global().Module("main").Warn("Sentry initialization failed", logger.Error(err))
			}
			defer telemetry.Flush(telemetryFlushTimeout)

			return site.Serve(cmd.Context(), settings)
		},
	}

	if err := setupFlags(cmd); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("host", "", "HTTP listen address")
	cmd.Flags().Bool("gzip", true, "Compress responses")
	cmd.Flags().Bool("metrics", true, "Expose Prometheus metrics")

	for key, flag := range map[string]string{
		"server.host":     "host",
		"server.gzip":     "gzip",
		"metrics.enabled": "metrics",
	} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flags: %w", err)
		}
	}
	return nil
}
