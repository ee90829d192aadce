// fair2048 is the rules engine and verification CLI for a deterministic,
// independently re-verifiable 2048 game.
//
// Usage:
//
//	fair2048 start --owner <name> --seed <hex>   - Start a new session
//	fair2048 move <session-id> <direction>       - Submit a move
//	fair2048 verify                              - Verify one transition
//	fair2048 replay <session-id>                 - Re-verify a whole session
//	fair2048 sessions [<session-id>]             - List or show sessions
//	fair2048 prize <session-id>                  - Mark a prize distributed
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.fair2048/config.yaml)
//	--db <path>         - Sessions database path (overrides config)
//	--log-level <level> - debug, info, warn or error (overrides config)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/provagame/fair2048/internal/config"
	"github.com/provagame/fair2048/internal/session"
	"github.com/provagame/fair2048/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fair2048",
	Short: "fair2048 - verifiable 2048 rules engine",
	Long: `fair2048 plays and verifies a deterministic 2048 game in which every
move is reproducible from public inputs: a packed board, a move code and
an explicit seed. Mutually distrusting parties can recompute each other's
boards and reject any forged transition.

Available commands:
  start    - Start a new session from a seed
  move     - Submit (and optionally verify) one move
  verify   - Verify a single claimed transition, statelessly
  replay   - Re-verify a session's whole move log
  sessions - List sessions or show one
  prize    - Mark a won session's prize as distributed

Examples:
  fair2048 start --owner alice --seed 6d7920736563726574
  fair2048 move 6f2c…e1 left
  fair2048 verify --prev <hex> --move left --next <hex> --seed <hex>
  fair2048 replay 6f2c…e1`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to sessions database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(prizeCmd)
}

// loadConfig loads the configuration and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Database = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

// newLogger builds the shared logger from config.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fair2048",
	})
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// openManager wires config, storage and logger into a session manager.
// The caller must Close the returned store.
func openManager() (*session.Manager, *storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	mgr := session.NewManager(store, newLogger(cfg), session.ManagerConfig{
		WinExponent: cfg.WinExponent,
		Mode:        session.ValidationMode(cfg.Validation.Mode),
	})
	return mgr, store, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
