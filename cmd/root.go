package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pshail/kmirror/pkg/logging"
)

var logLevel string

// rootCmd represents the base command for the kmirror application.
var rootCmd = &cobra.Command{
	Use:   "kmirror",
	Short: "Mirror Kubernetes resources into a local, continuously synced cache",
	Long: `kmirror maintains a local, eventually-consistent mirror of a Kubernetes
resource collection using list and watch, and renders the mirrored state
as it evolves. It is also the reference consumer of the reflector library
this repository provides.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, cmd.ErrOrStderr())
		return nil
	},
}

// SetVersion sets the version for the root command. This is called from the
// main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kmirror version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newMirrorCmd())
}
