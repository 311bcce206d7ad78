// blockfall is a falling-block game for the terminal.
//
// Usage:
//
//	blockfall play           - Play in this terminal
//	blockfall serve          - Start SSH server for remote play
//	blockfall stats          - Show recorded sessions
//	blockfall config         - Print the effective configuration
//
// Global flags:
//
//	--seed <value>     - Set RNG seed for reproducible block order
//	--db <path>        - Set database path (default: ~/.blockfall/blockfall.db)
//	--config <path>    - Use a custom config YAML
//	--log-file <path>  - Write logs to a file while playing
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
)

var (
	// Global flags
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - falling blocks in your terminal",
	Long: `Blockfall drops blocks into a walled field. Steer them left, right
and down; full rows disappear. The game ends when a new block has no room.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  stats    - View recorded sessions
  config   - Print the effective configuration

Examples:
  blockfall play
  blockfall play --seed 42
  blockfall serve --ssh :2222 --metrics-addr :9090
  blockfall stats --plain`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/blockfall.db", "Path to session database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the configuration or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger returns a logger writing to --log-file. The terminal belongs to
// the game, so without a file logs are discarded. The returned closer must
// be called when done.
func newLogger(cfg config.Config) (*log.Logger, func()) {
	var w io.Writer = io.Discard
	closer := func() {}

	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		} else {
			w = f
			closer = func() { f.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockfall",
	})
	if lvl, err := cfg.Level(); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, closer
}
