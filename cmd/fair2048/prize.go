package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var prizeCmd = &cobra.Command{
	Use:   "prize <session-id>",
	Short: "Mark a won session's prize as distributed",
	Long: `Flags a won session's prize as paid out. Fails if the session has not
won or if the prize was already distributed, so a payout can never be
recorded twice.

Examples:
  fair2048 prize 6f2c…e1`,
	Args: cobra.ExactArgs(1),
	Run:  runPrize,
}

func runPrize(cmd *cobra.Command, args []string) {
	mgr, store, err := openManager()
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	if err := mgr.MarkPrizeDistributed(args[0]); err != nil {
		fatal(err)
	}
	fmt.Println("Prize marked distributed for session", args[0])
}
