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
	streakCmd.AddCommand(streakShowCmd)
	streakCmd.AddCommand(streakMaintainCmd)
	streakCmd.AddCommand(streakGraceCmd)
	rootCmd.AddCommand(streakCmd)
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Inspect and maintain daily streaks",
}

var streakShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show both streak tracks",
	RunE:  runStreakShow,
}

var streakMaintainCmd = &cobra.Command{
	Use:   "maintain <wisdom|reflection>",
	Short: "Record today's activity on a track",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreakMaintain,
}

var streakGraceCmd = &cobra.Command{
	Use:   "grace <wisdom|reflection>",
	Short: "Spend the grace day to cover a missed day",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreakGrace,
}

func runStreakShow(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	streaks, err := d.Streak.Streaks(domain.LocalUser)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRACK\tCURRENT\tLONGEST\tLAST DAY\tGRACE")
	for _, s := range streaks {
		grace := "available"
		if !s.GraceAvailable(time.Now()) {
			grace = "used"
		}
		lastDay := s.LastDay
		if lastDay == "" {
			lastDay = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", s.Track, s.Current, s.Longest, lastDay, grace)
	}
	return w.Flush()
}

func parseTrack(arg string) (domain.StreakTrack, error) {
	track := domain.StreakTrack(arg)
	if !track.Valid() {
		return "", fmt.Errorf("%w: %q (want wisdom or reflection)", domain.ErrUnknownTrack, arg)
	}
	return track, nil
}

func runStreakMaintain(cmd *cobra.Command, args []string) error {
	track, err := parseTrack(args[0])
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Streak.Maintain(domain.LocalUser, track, time.Now())
	if err != nil {
		return err
	}

	switch {
	case res.AlreadyToday:
		fmt.Printf("%s streak already counted today (%d days).\n", track, res.Current)
	default:
		fmt.Printf("%s streak: %d days (longest %d).\n", track, res.Current, res.Longest)
	}
	return nil
}

func runStreakGrace(cmd *cobra.Command, args []string) error {
	track, err := parseTrack(args[0])
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	applied, err := d.Streak.ApplyGrace(domain.LocalUser, track, time.Now())
	if err != nil {
		return err
	}
	if !applied {
		fmt.Println("Grace not applied: either not needed or already used this window.")
		return nil
	}
	fmt.Printf("Grace applied to the %s streak. Next grace in %d days.\n", track, domain.GraceWindowDays)
	return nil
}
