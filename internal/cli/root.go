// filepath: internal/cli/root.go
package cli

import (
	"embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version info
	Version   = "0.4.0"
	StartTime time.Time
)

// RootCmd represents the base command when called without any subcommands.
// It starts the web server.
var RootCmd = &cobra.Command{
	Use:   "snapstream",
	Short: "SnapStream web frontend",
	Long:  `Server-rendered pages and fragments for the SnapStream media analysis backend.`,
	// PersistentPreRunE loads the configuration before any command runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "snapstream %s\n", Version)
	},
}

// staticFS holds the embedded stylesheet and page script.
var staticFS embed.FS

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute(fs embed.FS) {
	staticFS = fs
	StartTime = time.Now()

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// serverFlags returns the flags shared by the root and serve commands.
// Each call builds a new set bound to the same variables.
func serverFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("server", pflag.ExitOnError)
	fs.IntVar(&port, "port", 0, "Port for the HTTP server. (Env: SNAPSTREAM_PORT)")
	fs.StringVar(&backendURL, "backend-url", "", "Base URL of the SnapStream backend. (Env: SNAPSTREAM_BACKEND_URL)")
	fs.StringVar(&cookieSecret, "cookie-secret", "", "Secret for signing frontend cookies. (Env: SNAPSTREAM_COOKIE_SECRET)")
	fs.StringVar(&maxUpload, "max-upload", "", "Maximum upload size (e.g. '100MB'). (Env: SNAPSTREAM_MAX_UPLOAD)")
	fs.StringVar(&notificationSource, "notifications", "", "Notification source: mock or api. (Env: SNAPSTREAM_NOTIFICATIONS)")
	fs.BoolVar(&auditEnabled, "audit-enabled", false, "Enable detailed audit logging. (Env: SNAPSTREAM_AUDIT_ENABLED=true)")
	return fs
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config_path", defaultConfigPath, "Path to the base configuration file. (Env: SNAPSTREAM_CONFIG_PATH)")
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile, "Optional dotenv file loaded before reading the environment.")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: SNAPSTREAM_LOG_LEVEL)")

	RootCmd.Flags().AddFlagSet(serverFlags())
	serveCmd.Flags().AddFlagSet(serverFlags())

	RootCmd.AddCommand(serveCmd, versionCmd)
}
