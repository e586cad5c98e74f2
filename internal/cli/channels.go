package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargovortex/notify-relay/internal/notify"
)

func newChannelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List accessible channels and show which one discovery would pick",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := botClient(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			discovery := notify.NewDiscovery(client,
				cfg.Notifications.PrimaryChannel,
				cfg.Notifications.FallbackChannels,
			)

			candidates, err := discovery.Candidates(ctx)
			if err != nil {
				return err
			}

			pick, err := discovery.Discover(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				fmt.Fprintln(out, warnStyle.Render("no accessible channels found"))
				fmt.Fprintln(out, dimStyle.Render("dispatch would fall back to the webhook transport"))
				return nil
			}

			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d accessible channel(s)", len(candidates))))
			for _, ch := range candidates {
				visibility := "public"
				if ch.IsPrivate {
					visibility = "private"
				}
				line := fmt.Sprintf("  #%-28s %s  member=%-5t %s", ch.Name, ch.ID, ch.IsMember, visibility)
				if pick != nil && ch.ID == pick.ID {
					fmt.Fprintln(out, passStyle.Render(line+"  ← selected"))
				} else {
					fmt.Fprintln(out, line)
				}
			}

			return nil
		},
	}
}
