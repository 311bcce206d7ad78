package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
	flagClear bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recorded sessions",
	Long: `Display totals and the most recent sessions from the database.

Examples:
  blockfall stats
  blockfall stats --plain --limit 5
  blockfall stats --clear`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain text table instead of the interactive view")
	statsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions to print with --plain")
	statsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded sessions")
}

func runStats(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session database: %v\n", err)
		os.Exit(1)
	}
	code := stats(store)
	store.Close()
	if code != 0 {
		os.Exit(code)
	}
}

func stats(store *storage.Store) int {
	if flagClear {
		if err := store.ClearSessions(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing sessions: %v\n", err)
			return 1
		}
		fmt.Println("All recorded sessions deleted.")
		return 0
	}

	if !flagPlain {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunStats(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	totals, err := store.Totals()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving totals: %v\n", err)
		return 1
	}
	sessions, err := store.RecentSessions(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		return 1
	}

	fmt.Println("Blockfall Sessions")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'blockfall play' to start one!")
		return 0
	}

	fmt.Printf("  %-16s  %-5s  %-12s  %5s  %6s  %s\n", "Date", "From", "End", "Rows", "Blocks", "Time")
	fmt.Printf("  %-16s  %-5s  %-12s  %5s  %6s  %s\n", "----", "----", "---", "----", "------", "----")
	for _, s := range sessions {
		fmt.Printf("  %-16s  %-5s  %-12s  %5d  %6d  %s\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.Origin, s.Reason,
			s.RowsCleared, s.Locked, s.Duration.Round(time.Second))
	}

	fmt.Println()
	fmt.Println(tui.SummaryLine(totals))
	return 0
}
