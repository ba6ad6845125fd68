package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"polyvox/internal/config"
	"polyvox/internal/language"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to point packs_dir at your language packs before running a merge.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate the configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configFlag, _ := cmd.Flags().GetString("config")
			cfg, path, exists, err := config.Load(configFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !exists {
				fmt.Fprintf(out, "No configuration file found, defaults are valid (looked at %s)\n", path)
				return nil
			}
			fmt.Fprintf(out, "Configuration at %s is valid\n", path)
			fmt.Fprintf(out, "Default audio: %s, subtitles: %s\n",
				language.DisplayName(cfg.Merge.DefaultLanguage),
				language.DisplayName(cfg.Merge.SubtitleLanguage),
			)
			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the effective configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configFlag, _ := cmd.Flags().GetString("config")
			cfg, path, exists, err := config.Load(configFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Configuration file: %s\n", path)
			} else {
				fmt.Fprintln(out, "Configuration file: (defaults, no file found)")
			}

			rows := [][]string{
				{"packs_dir", cfg.Paths.PacksDir},
				{"output_dir", cfg.Paths.OutputDir},
				{"staging_dir", cfg.Paths.StagingDir},
				{"log_dir", cfg.Paths.LogDir},
				{"default_language", cfg.Merge.DefaultLanguage},
				{"subtitle_language", cfg.Merge.SubtitleLanguage},
				{"player_speaker", cfg.Merge.PlayerSpeaker},
				{"voice_variant", cfg.Merge.VoiceVariant},
				{"translation_effect", fmt.Sprintf("%t", cfg.Merge.TranslationEffect)},
				{"voice_swap", fmt.Sprintf("%t", cfg.Merge.VoiceSwap)},
				{"polyglot", fmt.Sprintf("%t (%d overrides)", cfg.Polyglot.Enabled, len(cfg.Polyglot.Overrides))},
				{"history", fmt.Sprintf("%t (%s)", cfg.History.Enabled, cfg.HistoryPath())},
			}
			fmt.Fprintln(out, renderTable([]string{"SETTING", "VALUE"}, rows, nil))
			return nil
		},
	}
}
