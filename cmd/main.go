// remotekb - Remote Keyboard
// Forwards key presses from one machine to another over TCP or WebSocket
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"remotekb/internal/config"
)

var (
	version    = "0.1.0"
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "remotekb",
	Short:         "type on another machine",
	Long:          `remotekb forwards the key presses of a focused window (or terminal) on one machine to another machine, where they are replayed as native keyboard input.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "remotekb version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the per-user config directory)")
	rootCmd.AddCommand(versionCmd)
}

// loadConfig returns the manager for --config. A broken file is reported and
// the defaults are used.
func loadConfig() (*config.Manager, error) {
	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config: %v", err)
	}
	return cfgMgr, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
