package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resume-turns-be/pkg/events"
	pktNats "resume-turns-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print version events from the NATS bus until interrupted",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		return err
	}
	defer sub.Close()

	stopConsume, err := sub.Subscribe(ctx, "events.VERSION_*", "", func(_ context.Context, e events.Event) error {
		p := e.Payload()
		color.Cyan("%s  %s", e.Timestamp().Format("15:04:05"), e.EventType())
		fmt.Printf("  version %v %q step %v state %v\n", p["version_id"], p["name"], p["step"], p["state_id"])
		return nil
	})
	if err != nil {
		return err
	}
	defer stopConsume()

	color.Yellow("Watching version events on %s (Ctrl+C to stop)", natsURL)
	<-ctx.Done()
	return nil
}
