package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provagame/fair2048/internal/game2048"
)

var flagClaim string

var moveCmd = &cobra.Command{
	Use:   "move <session-id> <up|down|left|right>",
	Short: "Submit (and optionally verify) one move",
	Long: `Applies one move to the session's latest board. Without --claim the
resulting board is computed locally; with --claim the given board is
validated against the recomputed expectation and rejected on mismatch.

Examples:
  fair2048 move 6f2c…e1 left
  fair2048 move 6f2c…e1 up --claim 00000000000002010000000000000100`,
	Args: cobra.ExactArgs(2),
	Run:  runMove,
}

func init() {
	moveCmd.Flags().StringVar(&flagClaim, "claim", "", "Claimed result board, hex encoded")
}

func runMove(cmd *cobra.Command, args []string) {
	sessionID := args[0]

	move, err := game2048.ParseMove(args[1])
	if err != nil {
		fatal(err)
	}

	var claimed *game2048.Board
	if flagClaim != "" {
		b, err := game2048.ParseHex(flagClaim)
		if err != nil {
			fatal(err)
		}
		claimed = &b
	}

	mgr, store, err := openManager()
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	s, err := mgr.SubmitMove(sessionID, move, claimed)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Move %d accepted (%s)\n", s.MoveCount-1, move)
	fmt.Println("Board:", s.Board.Hex())
	fmt.Println("Score:", s.Board.Score())
	fmt.Println()
	fmt.Print(s.Board)

	if s.Won {
		fmt.Println("\nWinning tile reached.")
	}
	if s.Terminal {
		fmt.Println("\nNo legal moves remain; session is terminal.")
	}
}
