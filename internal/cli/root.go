// Package cli implements notifyctl, the delivery diagnostics tool:
// send a test notification, inspect channel discovery, or probe a
// channel for writability.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cargovortex/notify-relay/internal/config"
	"github.com/cargovortex/notify-relay/internal/slack"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "notifyctl",
		Short:         "CargoVortex notification delivery diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	root.AddCommand(
		newSendTestCmd(),
		newChannelsCmd(),
		newVerifyCmd(),
		newVersionCmd(),
	)

	return root
}

// Execute runs the CLI.
func Execute() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), failStyle.Render("✗ "+err.Error()))
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// botClient builds a Slack client from config, failing when the bot
// token is absent since every bot-API command needs it.
func botClient(cfg *config.Config) (*slack.Client, error) {
	if !cfg.Slack.DirectChannelEnabled() {
		return nil, errors.New("no bot token configured (set slack.bot_token or NOTIFY_SLACK__BOT_TOKEN)")
	}
	return slack.NewClient(slack.Config{
		BotToken: cfg.Slack.BotToken,
		BaseURL:  cfg.Slack.APIBaseURL,
		Timeout:  cfg.Slack.APITimeout,
	}), nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
