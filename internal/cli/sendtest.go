package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargovortex/notify-relay/internal/app"
	"github.com/cargovortex/notify-relay/internal/notify"
)

func newSendTestCmd() *cobra.Command {
	var (
		userName  string
		vizURL    string
		algorithm string
	)

	cmd := &cobra.Command{
		Use:   "send-test",
		Short: "Dispatch a canned optimization result through the configured transports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dispatcher := app.BuildDispatcher(cfg)

			event := notify.Event{
				VolumeUtilization: 87.3,
				ItemsPacked:       15,
				TotalWeight:       523.7,
				RemainingVolume:   1.8,
				UserName:          userName,
				Algorithm:         algorithm,
				VisualizationURL:  vizURL,
			}

			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Sending test notification..."))

			result := dispatcher.Notify(cmd.Context(), event)

			out := cmd.OutOrStdout()
			if result.Success {
				fmt.Fprintln(out, passStyle.Render(fmt.Sprintf("✓ delivered via %s", result.Transport)))
			} else {
				fmt.Fprintln(out, failStyle.Render("✗ delivery failed"))
			}
			fmt.Fprintln(out, dimStyle.Render("  dispatch_id: "+result.ID))
			fmt.Fprintln(out, dimStyle.Render("  detail:      "+result.Detail))

			if !result.Success {
				return fmt.Errorf("notification not delivered: %s", result.Detail)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userName, "user", "Test Engineer", "reported user name")
	cmd.Flags().StringVar(&algorithm, "algorithm", "Genetic Algorithm", "reported algorithm name")
	cmd.Flags().StringVar(&vizURL, "visualization-url", "", "optional 3D visualization link")

	return cmd
}
