package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/prody-app/prody/internal/domain"
)

func init() {
	journalAddCmd.Flags().StringVar(&journalMood, "mood", "", "Optional mood tag for the entry")
	journalListCmd.Flags().IntVar(&journalLimit, "limit", 20, "Maximum entries to show")
	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalListCmd)
	rootCmd.AddCommand(journalCmd)
}

var (
	journalMood  string
	journalLimit int
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Write and browse journal entries",
}

var journalAddCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Save a journal entry",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJournalAdd,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent journal entries",
	RunE:  runJournalList,
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	content := strings.Join(args, " ")
	entry, outcome, err := d.Journal.Add(domain.LocalUser, content, journalMood, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Saved entry %s (%d words).\n", entry.ID, entry.WordCount)
	if outcome.Streak.Advanced {
		fmt.Printf("Reflection streak: %d days (longest %d).\n",
			outcome.Streak.Current, outcome.Streak.Longest)
	}
	if outcome.Bloom != nil && outcome.Bloom.Status == domain.BloomStatusBloomed {
		fmt.Printf("🌸 Your entry bloomed today's seed! +%d XP, +%d tokens.\n",
			outcome.Bloom.XPGranted, outcome.Bloom.TokensGranted)
	}
	if outcome.XPGranted > 0 {
		fmt.Printf("+%d reflection XP.\n", outcome.XPGranted)
	}
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := d.Journal.List(domain.LocalUser, journalLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No entries yet. Run 'prody journal add <text>' to get started.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WRITTEN\tWORDS\tMOOD\tPREVIEW")
	for _, e := range entries {
		preview := e.Content
		if len(preview) > 60 {
			preview = preview[:57] + "..."
		}
		mood := e.Mood
		if mood == "" {
			mood = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.WordCount, mood, preview)
	}
	return w.Flush()
}
