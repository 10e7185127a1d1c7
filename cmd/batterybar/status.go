package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/batterybar/batterybar/pkg/client"
	"github.com/batterybar/batterybar/pkg/config"
	"github.com/batterybar/batterybar/pkg/powerinfo"
	"github.com/batterybar/batterybar/pkg/powersource"
	"github.com/batterybar/batterybar/pkg/threshold"
	"github.com/batterybar/batterybar/pkg/title"
)

type statusData struct {
	status *powerinfo.Status
	config *config.RawFileConfig
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData(apiClient *client.Client) (*statusData, error) {
	st, err := apiClient.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &statusData{
		status: st,
		config: conf,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current battery status",
		Long:    `Get the battery status as last seen by the running batterybar, and its configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData(client.NewClient(unixSocketPath))
			if err != nil {
				return err
			}
			printStatus(cmd, data)
			return nil
		},
	}
}

func printStatus(cmd *cobra.Command, data *statusData) {
	st := data.status
	conf := config.NewFileFromConfig(data.config, "")

	cmd.Println(bold("Battery status:"))
	if st.Title == "" {
		cmd.Println("  No reading yet.")
	} else {
		cmd.Printf("  Menubar: %s\n", bold("%s", st.Title))
		cmd.Printf("  Power source: %s\n", bold("%s", stateText(st.State)))

		charge := bold("%s%%", title.Percent(st.Percent))
		if st.Percent <= threshold.LowBatteryThreshold {
			charge = color.New(color.Bold, color.FgRed).Sprintf("%s%%", title.Percent(st.Percent))
		}
		cmd.Printf("  Current charge: %s\n", charge)
		cmd.Printf("  Capacity: %s\n", bold("%d / %d", st.CurrentCapacity, st.MaxCapacity))

		if st.TimeRemainingMinutes != nil {
			label := "Time remaining"
			if st.State == powersource.ACPowerValue {
				label = "Time until full"
			}
			cmd.Printf("  %s: %s\n", label, bold("%s", title.HumanTime(*st.TimeRemainingMinutes)))
		}
		cmd.Printf("  Last updated: %s\n", bold("%s", st.UpdatedAt.Local().Format(time.Kitchen)))
	}
	if st.LastError != "" {
		cmd.Printf("  Last error: %s\n", color.RedString(st.LastError))
	}
	if st.LastTransition != "" {
		cmd.Printf("  Last alert change: %s at %s\n", bold("%s", st.LastTransition), st.LastTransitionAt.Local().Format(time.Kitchen))
	}

	cmd.Println()

	cmd.Println(bold("Configuration:"))
	cmd.Printf("  Show notification when low: %s\n", bool2Text(conf.Notify()))
	cmd.Printf("  Speak when low: %s\n", bool2Text(conf.Speak()))
	cmd.Printf("  Headless (no menubar): %s\n", bool2Text(conf.Headless()))
	cmd.Printf("  Allow other users to access the socket: %s\n", bool2Text(conf.AllowNonRootAccess()))
}

func stateText(state string) string {
	switch state {
	case powersource.ACPowerValue:
		return color.GreenString(state)
	case powersource.BatteryPowerValue:
		return color.YellowString(state)
	}
	return state
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
