package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotesync/internal/platform/config"
)

const defaultProfile = "local"

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	profile   string
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	serve := newServeCmd(opts)

	root := &cobra.Command{
		Use:   "quotesync",
		Short: "Quote collection with periodic server sync",
		Long: `quotesync keeps a local quote collection, serves it over a JSON API
and periodically merges quotes from a remote source.

Running without a subcommand starts the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.PersistentFlags().StringVar(&opts.profile, "profile", profileFromEnv(),
		"configuration profile (<config-dir>/<profile>.yaml); defaults to $APP_ENVIRONMENT")
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", config.DefaultDir,
		"directory holding base.yaml and the profile files")

	root.AddCommand(
		serve,
		newSyncCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
	)

	return root
}

func profileFromEnv() string {
	if p := os.Getenv("APP_ENVIRONMENT"); p != "" {
		return p
	}

	return defaultProfile
}
