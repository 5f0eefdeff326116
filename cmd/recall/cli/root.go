package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixgeelhaar/recall/internal/chat"
	"github.com/felixgeelhaar/recall/internal/engine"
	"github.com/felixgeelhaar/recall/internal/guard"
	"github.com/felixgeelhaar/recall/internal/observe"
	"github.com/felixgeelhaar/recall/internal/settings"
	"github.com/felixgeelhaar/recall/internal/ui/tui"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dataDir    string
	groupName  string
	verbose    bool
	ciMode     bool
	senderName string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Chat memory bot",
	Long: `Recall learns factoids and karma from chat and plays them back on
request. Each group keeps its own knowledge base.`,
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start an interactive chat session",
	Run: func(cmd *cobra.Command, args []string) {
		runConsole()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(consoleCmd)
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	RootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding one database per group")
	RootCmd.PersistentFlags().StringVarP(&groupName, "group", "g", "", "Group identifier")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	RootCmd.PersistentFlags().BoolVar(&ciMode, "ci", false, "CI mode: JSON log output")
	consoleCmd.Flags().StringVar(&senderName, "as", defaultSender(), "Name to chat under")
}

const consoleChannel = "#console"

func runConsole() {
	cfg := loadConfig()

	// The TUI owns stdout.
	var obs *observe.Observer
	if ciMode {
		obs = observe.NewJSON(os.Stderr, cfg.Verbose)
	} else {
		obs = observe.New(os.Stderr, cfg.Verbose)
	}
	defer obs.Close()

	g := guard.New(cfg.Guard)
	if v := g.CheckChannel(consoleChannel); v != nil {
		obs.Log().Fatal().Str("rule", v.Rule).Msg(v.Message)
	}

	st := openStore(cfg)
	defer st.Close()

	ctx := context.Background()
	if err := st.Init(ctx, cfg.Group); err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to init group database")
	}

	all, err := st.AllSettings(ctx, cfg.Group)
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to load settings")
	}

	self := chat.User{ID: "B0001", Name: cfg.BotName}
	sender := chat.User{ID: "U0001", Name: senderName}

	inputs := make(chan string, 16)
	model := tui.NewModel(cfg.BotName, sender.Name, func(text string) {
		inputs <- text
	})
	program := tea.NewProgram(model)

	adapter := tui.NewAdapter(program, self, []chat.User{sender})
	eng := engine.New(st, obs, engine.WithMaxMessageSize(g.Policy().MaxMessageSize))
	sess := &engine.Session{
		Adapter:  adapter,
		Group:    cfg.Group,
		Settings: settings.FromMap(all),
		Names:    chat.NewNameCache(),
	}

	runner := NewRunner(obs, st, eng, sess, tui.NewTUI(program))
	runner.BotName = cfg.BotName
	runner.Sender = sender
	runner.Inputs = inputs

	go func() {
		_ = runner.Run(ctx)
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	close(inputs)
}

func defaultSender() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "you"
}
