// root.go: command tree and configuration binding
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/agilira/hood"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "hoodbench",
		Short: "Workload driver for hood caches",
		Long: fmt.Sprintf(`hoodbench (hood %s)

Runs a synthetic read/insert/delete mix against one hood cache per shard
and reports cache and table statistics. Every flag can also be set through
a HOOD_* environment variable (dashes become underscores), a .env file or
a config file passed with --config.`, hood.Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cmd)
		},
	}

	root.PersistentFlags().String("config", "", "Optional config file (yaml, json or toml)")
	root.PersistentFlags().Bool("verbose", false, "Log cache internals (evictions, purges) to stderr")

	root.AddCommand(newRunCmd(v))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the hood version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("hood %s\n", hood.Version)
		},
	})
	return root
}

// initConfig layers configuration: flags over environment over .env files
// over the optional config file.
func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	v.SetEnvPrefix("hood")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return nil
}
