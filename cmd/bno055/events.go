package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sensorkit/bno055/pkg/client"
)

func NewEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "events",
		Short:   "Follow daemon events (mode changes, resets, calibration progress)",
		GroupID: gCalibration,
		RunE: func(cmd *cobra.Command, _ []string) error {
			socket := unixSocketPath
			if socket == "" {
				socket = defaultDaemonSocket
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ch, err := client.NewClient(socket).SubscribeEvents(ctx)
			if err != nil {
				return err
			}

			for ev := range ch {
				cmd.Printf("%s %s\n", bold("%s", ev.Name), ev.Data)
			}

			if ctx.Err() == nil {
				return errors.New("daemon closed the event stream")
			}
			return nil
		},
	}
}
