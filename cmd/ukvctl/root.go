package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ukvdb/ukv"
)

// cliConfig mirrors ukv.Config, layered from flags, environment, and an
// optional config file via viper.
type cliConfig struct {
	Engine   string
	Path     string
	Cache    int
	LogLevel string
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("ukvctl")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "ukvctl",
		Short: "Command-line front end for the ukv engine",
	}

	root.PersistentFlags().String("engine", "memory", "backend: memory, badger, or remote")
	root.PersistentFlags().String("path", "", "badger directory, or remote dial target")
	root.PersistentFlags().Int("cache", 0, "read-through value cache size, in entries")
	root.PersistentFlags().String("log-level", "", "logging level: debug, warn, or error (default: silent)")
	_ = v.BindPFlags(root.PersistentFlags())

	root.AddCommand(
		newWriteCmd(v),
		newReadCmd(v),
		newScanCmd(v),
		newSizeCmd(v),
		newControlCmd(v),
		newShellCmd(v),
	)
	return root
}

func readCLIConfig(v *viper.Viper) cliConfig {
	return cliConfig{
		Engine:   v.GetString("engine"),
		Path:     v.GetString("path"),
		Cache:    v.GetInt("cache"),
		LogLevel: v.GetString("log-level"),
	}
}

func openDB(v *viper.Viper) (*ukv.DB, error) {
	cfg := readCLIConfig(v)
	raw, err := json.Marshal(map[string]any{
		"engine":    cfg.Engine,
		"path":      cfg.Path,
		"cache":     cfg.Cache,
		"log_level": cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("ukvctl: encode config: %w", err)
	}
	return ukv.Open(string(raw))
}
