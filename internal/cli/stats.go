package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/prody-app/prody/internal/domain"
)

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(achievementsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress across streaks, skills and seeds",
	RunE:  runStats,
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements",
	RunE:  runAchievements,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	userID := domain.LocalUser
	now := time.Now()

	stats, err := d.Achievement.Snapshot(userID)
	if err != nil {
		return err
	}
	// Surface anything the latest numbers unlock.
	if _, err := d.Achievement.CheckAndUnlock(userID, stats, now); err != nil {
		return err
	}

	skills, err := d.Skills.Get(userID)
	if err != nil {
		return err
	}

	fmt.Printf("Streaks: wisdom %d (longest %d), reflection %d (longest %d)\n",
		stats.WisdomCurrent, stats.WisdomLongest,
		stats.ReflectionCurrent, stats.ReflectionLongest)
	fmt.Printf("Journal entries: %d   Seeds bloomed: %d   Tokens: %d\n",
		stats.JournalEntries, stats.SeedsBloomed, skills.Tokens)
	fmt.Printf("XP: wisdom %d, reflection %d, discipline %d\n",
		skills.WisdomXP, skills.ReflectionXP, skills.DisciplineXP)
	return nil
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	userID := domain.LocalUser
	unlocked, err := d.Achievement.ListUnlocked(userID)
	if err != nil {
		return err
	}
	unlockedAt := make(map[string]time.Time, len(unlocked))
	for _, u := range unlocked {
		unlockedAt[u.ID] = u.UnlockedAt
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACHIEVEMENT\tREWARD\tUNLOCKED")
	for _, def := range d.Achievement.Definitions() {
		when := "-"
		if at, ok := unlockedAt[def.ID]; ok {
			when = at.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s %s\t%d XP / %d tokens\t%s\n",
			def.Icon, def.Name, def.RewardXP, def.RewardTokens, when)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d of %d unlocked.\n", len(unlocked), d.Achievement.TotalCount())
	return nil
}
