package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batterybar/batterybar/pkg/client"
	"github.com/batterybar/batterybar/pkg/events"
)

func NewEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "events",
		GroupID: gBasic,
		Short:   "Watch low battery events",
		Long:    `Print low battery alerts and recoveries as they happen, until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiClient := client.NewClient(unixSocketPath)
			// Fail early with a useful error if nothing is listening.
			if _, err := apiClient.GetVersion(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for ev := range apiClient.SubscribeEvents(ctx) {
				printEvent(cmd, ev)
			}
			return nil
		},
	}
}

func printEvent(cmd *cobra.Command, ev events.Event) {
	switch ev.Name {
	case events.BatteryLow, events.BatteryRecovered:
		p, err := events.DecodeAs[events.ThresholdEvent](ev)
		if err != nil {
			logrus.WithError(err).Warnf("failed to decode %s event", ev.Name)
			return
		}
		cmd.Printf("%s %s %s\n", time.Unix(p.Ts, 0).Format(time.Kitchen), bold("%s", ev.Name), p.Title)
	case events.AlertFailed:
		p, err := events.DecodeAs[events.AlertFailedEvent](ev)
		if err != nil {
			logrus.WithError(err).Warnf("failed to decode %s event", ev.Name)
			return
		}
		cmd.Printf("%s %s %s\n", time.Unix(p.Ts, 0).Format(time.Kitchen), bold("%s", ev.Name), p.Error)
	default:
		logrus.WithField("name", ev.Name).Debug("ignoring unknown event")
	}
}
