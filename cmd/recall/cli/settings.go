package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/felixgeelhaar/recall/internal/settings"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change a group's settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		s := openStore(cfg)
		defer s.Close()

		ctx := context.Background()
		if err := s.Init(ctx, cfg.Group); err != nil {
			fmt.Printf("Failed to init group database: %v\n", err)
			os.Exit(1)
		}

		if len(args) == 1 {
			v, ok, err := s.Setting(ctx, cfg.Group, args[0])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			if !ok {
				fmt.Println("(not set)")
				return
			}
			fmt.Println(v.Encode())
			return
		}

		all, err := s.AllSettings(ctx, cfg.Group)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s: %s\n", k, all[k].Encode())
		}
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting value (yes, no, or a raw string)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]

		cfg := loadConfig()
		s := openStore(cfg)
		defer s.Close()

		ctx := context.Background()
		if err := s.Init(ctx, cfg.Group); err != nil {
			fmt.Printf("Failed to init group database: %v\n", err)
			os.Exit(1)
		}

		if err := s.SetSetting(ctx, cfg.Group, key, settings.Decode(value)); err != nil {
			fmt.Printf("Failed to set setting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Setting saved: %s\n", key)
	},
}

func init() {
	RootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
