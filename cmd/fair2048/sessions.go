package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provagame/fair2048/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [<session-id>]",
	Short: "List sessions or show one",
	Long: `Without arguments, lists all sessions newest first. With a session id,
shows the session's board and its full move log.

Examples:
  fair2048 sessions
  fair2048 sessions 6f2c…e1`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSessions,
}

func runSessions(cmd *cobra.Command, args []string) {
	mgr, store, err := openManager()
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	if len(args) == 1 {
		showSession(mgr, args[0])
		return
	}

	sessions, err := mgr.Sessions()
	if err != nil {
		fatal(err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions.")
		return
	}

	for _, s := range sessions {
		fmt.Printf("%s  owner=%s moves=%d score=%d%s%s%s\n",
			s.ID, s.Owner, s.MoveCount, s.Board.Score(),
			flagIf(s.Terminal, " terminal"),
			flagIf(s.Won, " won"),
			flagIf(s.PrizeDistributed, " prize-distributed"))
	}
}

func showSession(mgr *session.Manager, id string) {
	s, err := mgr.Session(id)
	if err != nil {
		fatal(err)
	}

	fmt.Println("Session: ", s.ID)
	fmt.Println("Owner:   ", s.Owner)
	fmt.Println("GameHash:", s.GameHash)
	fmt.Println("Created: ", s.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println("Moves:   ", s.MoveCount)
	fmt.Println("Score:   ", s.Board.Score())
	fmt.Println("Terminal:", s.Terminal)
	fmt.Println("Won:     ", s.Won)
	fmt.Println("Prize:   ", s.PrizeDistributed)
	fmt.Println("Board:   ", s.Board.Hex())
	fmt.Println()
	fmt.Print(s.Board)

	moves, err := mgr.Moves(id)
	if err != nil {
		fatal(err)
	}
	if len(moves) == 0 {
		return
	}

	fmt.Println("\nMove log:")
	for _, rec := range moves {
		fmt.Printf("  %3d  %-5s  %s\n", rec.Index, rec.Move, rec.Board.Hex())
	}
}

func flagIf(set bool, label string) string {
	if set {
		return label
	}
	return ""
}
