package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/recall/internal/chat"
	"github.com/felixgeelhaar/recall/internal/engine"
	"github.com/felixgeelhaar/recall/internal/observe"
	"github.com/felixgeelhaar/recall/internal/settings"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [text]",
	Short: "Send one message to the bot and print the response",
	Long: `Runs a single message through the bot as a direct message and prints
whatever it says to stdout. Useful for scripting and for poking at a
group's knowledge base.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text := strings.Join(args, " ")
		cfg := loadConfig()

		var obs *observe.Observer
		if ciMode {
			obs = observe.NewJSON(os.Stderr, cfg.Verbose)
		} else {
			obs = observe.New(os.Stderr, cfg.Verbose)
		}
		defer obs.Close()

		s := openStore(cfg)
		defer s.Close()

		ctx := context.Background()
		if err := s.Init(ctx, cfg.Group); err != nil {
			fmt.Printf("Failed to init group database: %v\n", err)
			os.Exit(1)
		}

		all, err := s.AllSettings(ctx, cfg.Group)
		if err != nil {
			fmt.Printf("Failed to load settings: %v\n", err)
			os.Exit(1)
		}

		self := chat.User{ID: "B0001", Name: cfg.BotName}
		sender := chat.User{ID: "U0001", Name: defaultSender()}
		adapter := chat.NewWriterAdapter(os.Stdout, self, sender)

		eng := engine.New(s, obs)
		sess := &engine.Session{
			Adapter:  adapter,
			Group:    cfg.Group,
			Settings: settings.FromMap(all),
			Names:    chat.NewNameCache(),
		}

		msg := engine.Message{
			SenderID: sender.ID,
			Sender:   sender.Name,
			Channel:  consoleChannel,
			IsDirect: true,
			Text:     text,
		}
		if err := eng.Handle(ctx, sess, msg); err != nil {
			obs.Log().Error().Err(err).Msg("message handling failed")
			os.Exit(1)
		}
	},
}

func init() {
	RootCmd.AddCommand(askCmd)
}
