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
	messageWriteCmd.Flags().StringVar(&messageIn, "in", "30d", "Delivery delay (e.g. 24h, 7d, 365d)")
	messageCmd.AddCommand(messageWriteCmd)
	messageCmd.AddCommand(messageDeliverCmd)
	messageCmd.AddCommand(messageListCmd)
	rootCmd.AddCommand(messageCmd)
}

var messageIn string

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Write messages to your future self",
}

var messageWriteCmd = &cobra.Command{
	Use:   "write <text...>",
	Short: "Write a future message",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMessageWrite,
}

var messageDeliverCmd = &cobra.Command{
	Use:   "deliver",
	Short: "Deliver any messages that have come due",
	RunE:  runMessageDeliver,
}

var messageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List future messages",
	RunE:  runMessageList,
}

// parseDelay accepts time.Duration syntax plus a day suffix ("7d").
func parseDelay(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func runMessageWrite(cmd *cobra.Command, args []string) error {
	delay, err := parseDelay(messageIn)
	if err != nil {
		return fmt.Errorf("parse --in: %w", err)
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	now := time.Now()
	content := strings.Join(args, " ")
	msg, err := d.Message.Write(domain.LocalUser, content, now.Add(delay), now)
	if err != nil {
		return err
	}

	fmt.Printf("Sealed. Your message arrives on %s.\n",
		msg.DeliverAt.Format("2006-01-02"))
	return nil
}

func runMessageDeliver(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	delivered, err := d.Message.Deliver(domain.LocalUser, time.Now())
	if err != nil {
		return err
	}

	if len(delivered) == 0 {
		fmt.Println("Nothing due yet.")
		return nil
	}
	for _, m := range delivered {
		fmt.Printf("── From %s ──\n%s\n", m.CreatedAt.Format("2006-01-02"), m.Content)
	}
	return nil
}

func runMessageList(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	msgs, err := d.Message.List(domain.LocalUser)
	if err != nil {
		return err
	}

	if len(msgs) == 0 {
		fmt.Println("No future messages. Run 'prody message write <text>'.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WRITTEN\tDELIVERY\tSTATUS")
	for _, m := range msgs {
		status := "sealed"
		if m.Delivered {
			status = "delivered"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			m.CreatedAt.Format("2006-01-02"), m.DeliverAt.Format("2006-01-02"), status)
	}
	return w.Flush()
}
