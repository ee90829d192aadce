package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provagame/fair2048/internal/game2048"
)

var (
	flagOwner     string
	flagStartSeed string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new session from a seed",
	Long: `Derives the deterministic two-tile start board from the given seed and
creates a session for the owner. The (owner, seed) pair may be used only
once; restarting from the same pair is rejected by the replay guard.

Examples:
  fair2048 start --owner alice --seed 6d7920736563726574`,
	Args: cobra.NoArgs,
	Run:  runStart,
}

func init() {
	startCmd.Flags().StringVar(&flagOwner, "owner", "", "Owning party of the session")
	startCmd.Flags().StringVar(&flagStartSeed, "seed", "", "Start seed, hex encoded")
	startCmd.MarkFlagRequired("owner")
	startCmd.MarkFlagRequired("seed")
}

func runStart(cmd *cobra.Command, args []string) {
	seed, err := hex.DecodeString(flagStartSeed)
	if err != nil {
		fatal(fmt.Errorf("seed must be hex encoded: %w", err))
	}

	mgr, store, err := openManager()
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	s, err := mgr.StartGame(flagOwner, game2048.Seed(seed))
	if err != nil {
		fatal(err)
	}

	fmt.Println("Session: ", s.ID)
	fmt.Println("GameHash:", s.GameHash)
	fmt.Println("Board:   ", s.Board.Hex())
	fmt.Println()
	fmt.Print(s.Board)
}
