package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/prody-app/prody/internal/domain"
)

func init() {
	seedCmd.AddCommand(seedTodayCmd)
	seedCmd.AddCommand(seedEngageCmd)
	seedCmd.AddCommand(seedBloomCmd)
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Today's wisdom seed",
}

var seedTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's seed",
	RunE:  runSeedToday,
}

var seedEngageCmd = &cobra.Command{
	Use:   "engage",
	Short: "Mark today's seed as seen (maintains the wisdom streak)",
	RunE:  runSeedEngage,
}

var seedBloomCmd = &cobra.Command{
	Use:   "bloom <text...>",
	Short: "Try to bloom today's seed with your own words",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSeedBloom,
}

func printSeed(s domain.Seed) {
	fmt.Printf("Today's seed (%s): %q\n", s.Type, s.Content)
	fmt.Printf("State: %s\n", s.State)
}

func runSeedToday(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	s, err := d.Seed.Today(domain.LocalUser, time.Now())
	if err != nil {
		return err
	}
	printSeed(s)
	return nil
}

func runSeedEngage(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	now := time.Now()
	s, err := d.Seed.RecordEngagement(domain.LocalUser, now)
	if err != nil {
		return err
	}

	res, err := d.Streak.Maintain(domain.LocalUser, domain.TrackWisdom, now)
	if err != nil {
		return err
	}

	printSeed(s)
	fmt.Printf("Wisdom streak: %d days (longest %d).\n", res.Current, res.Longest)
	return nil
}

func runSeedBloom(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	text := strings.Join(args, " ")
	res, err := d.Seed.AttemptBloom(domain.LocalUser, time.Now(), text, "cli", "")
	if err != nil {
		return err
	}

	switch res.Status {
	case domain.BloomStatusBloomed:
		fmt.Printf("🌸 Seed bloomed! +%d XP, +%d tokens.\n", res.XPGranted, res.TokensGranted)
	case domain.BloomStatusAlready:
		fmt.Println("Today's seed has already bloomed.")
	case domain.BloomStatusNoMatch:
		fmt.Printf("No bloom: the text does not use the seed %q.\n", res.Seed.Content)
	}
	return nil
}
