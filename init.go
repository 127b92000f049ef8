package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/redcanvas/config"
	"github.com/ByLCY/redcanvas/dsl"
	"github.com/ByLCY/redcanvas/editor"
)

func (a *app) initCommand() *cobra.Command {
	var (
		force       bool
		writeConfig bool
	)
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default card as a script to start from",
		Args:  cobra.MaximumNArgs(1),
		// init may be the thing that creates the config file, so it never loads one.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				a.logger.SetLevel(log.DebugLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "card.rc"
			if len(args) == 1 {
				path = args[0]
			}
			if err := writeNew(path, []byte(dsl.Format(editor.Default())), force); err != nil {
				return err
			}
			a.printf("%s %s\n", styleSuccess.Render("✓"), path)

			if !writeConfig {
				return nil
			}
			cfgPath := a.configPath
			if cfgPath == "" {
				cfgPath = config.DefaultPath()
			}
			if cfgPath == "" {
				return errors.New("无法确定配置文件路径，请使用 --config")
			}
			var buf bytes.Buffer
			if err := config.Encode(&buf, config.Default()); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
				return fmt.Errorf("创建配置目录失败: %w", err)
			}
			if err := writeNew(cfgPath, buf.Bytes(), force); err != nil {
				return err
			}
			a.printf("%s %s\n", styleSuccess.Render("✓"), cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "also write the default config file")
	return cmd
}

func writeNew(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s 已存在，使用 --force 覆盖", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
