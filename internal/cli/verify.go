package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargovortex/notify-relay/internal/notify"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <channel-name>",
		Short: "Probe a channel for writability by posting a visible test message",
		Long: "Posts a real, visible test message to the named channel to confirm the bot\n" +
			"can write there. Because the probe is user-visible it never runs as part of\n" +
			"normal dispatch; use it only when diagnosing delivery problems.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

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

			for _, ch := range candidates {
				if ch.Name != name {
					continue
				}
				if notify.VerifyWritable(ctx, client, ch) {
					fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render(fmt.Sprintf("✓ #%s is writable (a test message was posted)", name)))
					return nil
				}
				return fmt.Errorf("#%s rejected the probe message", name)
			}

			return fmt.Errorf("channel %q not found among accessible channels", name)
		},
	}
}
