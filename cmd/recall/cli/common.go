package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/recall/internal/config"
	"github.com/felixgeelhaar/recall/internal/store"
)

func loadConfig() config.Config {
	home, _ := os.UserHomeDir()
	cfg := config.Default(filepath.Join(home, ".recall"))

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = *loaded
	}

	// Flags win over file values.
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if groupName != "" {
		cfg.Group = groupName
	}
	if verbose {
		cfg.Verbose = true
	}

	if res := cfg.Validate(); !res.Valid {
		fmt.Printf("Invalid configuration: %s\n", strings.Join(res.Errors, "; "))
		os.Exit(1)
	}
	return cfg
}

func openStore(cfg config.Config) store.Store {
	s, err := store.NewSQLiteStore(cfg.DataDir)
	if err != nil {
		fmt.Printf("Failed to init store: %v\n", err)
		os.Exit(1)
	}
	return s
}
