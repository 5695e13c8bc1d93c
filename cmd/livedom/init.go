package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/livedom-dev/livedom/internal/config"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Write a default livedom.json",
		Long: `Write a default livedom.json to the current directory.

Examples:
  livedom init
  livedom init my-dashboard`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runInit(name, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing livedom.json")

	return cmd
}

func runInit(name string, force bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	path := filepath.Join(cwd, config.ConfigFileName)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigFileName)
		}
	}

	cfg := config.New()
	if name != "" {
		cfg.Name = name
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	success("wrote %s", config.ConfigFileName)
	info("run 'livedom serve' to start the sink server")
	return nil
}
