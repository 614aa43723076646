// Package cmd assembles the command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrferreira/mrferreira-web/cmd/catalog"
	"github.com/mrferreira/mrferreira-web/cmd/serve"
	"github.com/mrferreira/mrferreira-web/cmd/version"
	"github.com/mrferreira/mrferreira-web/internal/buildinfo"
	"github.com/mrferreira/mrferreira-web/internal/conf"
	"github.com/mrferreira/mrferreira-web/internal/logger"
)

// RootCommand creates and returns the root command. settings is filled in
// before any subcommand runs.
func RootCommand(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "mrferreira",
		Short:         "MR Ferreira Representações web site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := setupFlags(rootCmd, &configFile); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	versionCmd := version.Command(build)
	rootCmd.AddCommand(
		serve.Command(settings),
		catalog.Command(settings),
		versionCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// version needs neither config nor logging
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initialize(settings, build, configFile)
	}

	return rootCmd
}

// initialize loads the configuration and installs the global logger.
func initialize(settings *conf.Settings, build *buildinfo.Context, configFile string) error {
	loaded, err := conf.Load(configFile)
	if err != nil {
		return err
	}
	*settings = *loaded
	settings.Version = build.GetVersion()

	if settings.Debug {
		settings.Logging.DefaultLevel = "debug"
	}

	central, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(central)

	log := central.Module("main")
	log.Info("Starting",
		logger.String("version", build.GetVersion()),
		logger.String("build_date", build.GetBuildDate()),
		logger.String("config_file", conf.ConfigFileUsed()))
	return nil
}

// setupFlags defines the global flags and binds them to their config keys,
// so a flag wins over config.yaml and the environment.
func setupFlags(rootCmd *cobra.Command, configFile *string) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(configFile, "config", "c", "", "Path to config.yaml")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("port", "", "HTTP listen port")
	flags.String("catalog-url", "", "Base URL of the catalog API")

	bindings := map[string]string{
		"debug":            "debug",
		"server.port":      "port",
		"catalog.base_url": "catalog-url",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return nil
}
