package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/see/internal/app"
	"github.com/quantmind-br/see/internal/cache"
	"github.com/quantmind-br/see/internal/config"
	"github.com/quantmind-br/see/internal/tui"
	"github.com/quantmind-br/see/pkg/version"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull <reference> [dest]",
		Short: "Download a repository and remember it as a template",
		Example: `  see pull octo/starter
  see pull gitlab:grp/proj#v2 ./app
  see pull https://github.com/octo/starter --mode git`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := app.DefaultDest
			if len(args) == 2 {
				dest = args[1]
			}
			return runPull(cmd, args[0], dest)
		},
	}
	addFetchFlags(cmd)
	return cmd
}

func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select [dest]",
		Short: "Pick a remembered template and download it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := app.DefaultDest
			if len(args) == 1 {
				dest = args[0]
			}
			return runSelect(cmd, dest)
		},
	}
	addFetchFlags(cmd)
	return cmd
}

func newSetTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-token <token>",
		Short: "Store the access token used for private GitLab archives",
		Long: `Store the access token used for private GitLab archives.
Pass an empty string to remove it. SEE_TOKEN overrides the stored value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := setupRunner(cmd)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.SetToken(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List remembered templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := setupRunner(cmd)
			if err != nil {
				return err
			}
			defer runner.Close()

			templates, err := runner.Templates()
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates stored.")
				return nil
			}

			tbl := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(tui.HelpStyle).
				Headers("NAME", "URL")
			for _, t := range templates {
				tbl.Row(t.Name, t.URL)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Forget a remembered template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := setupRunner(cmd)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.RemoveTemplate(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add templates from a YAML or JSON manifest",
		Example: `  # templates.yaml
  templates:
    - name: starter
      url: octo/starter#main
    - url: gitlab:grp/proj`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := setupRunner(cmd)
			if err != nil {
				return err
			}
			defer runner.Close()

			result, err := runner.ImportTemplates(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d templates (%d added, %d updated, %d unchanged).\n",
				result.Total(), len(result.Added), len(result.Updated), len(result.Skipped))
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write remembered templates to a YAML or JSON manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := setupRunner(cmd)
			if err != nil {
				return err
			}
			defer runner.Close()

			n, err := runner.ExportTemplates(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d templates to %s.\n", n, args[0])
			return nil
		},
	}
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigFilePath()
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var overwrite bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()
			if err := config.Save(config.Default(), path, overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg.Redacted())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the configuration interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags are not applied; only what the file would hold is edited
			path := configPath()
			cfg := config.Default()
			if fileExists(path) {
				loaded, _, err := config.LoadWithViper(path)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				cfg = loaded
			}
			return runEditor(tui.Options{
				Config: cfg,
				SaveFunc: func(c *config.Config) error {
					if _, ok := os.LookupEnv(config.EnvPrefix + "_TOKEN"); ok {
						c.Token = ""
					}
					return config.Save(c, path, true)
				},
				SavedPath:  path,
				Accessible: cfg.Prompt.Accessible,
			})
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), configPath())
		},
	}

	cmd.AddCommand(initCmd, showCmd, editCmd, pathCmd)
	return cmd
}

func openCache() (*cache.BadgerCache, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	c, err := cache.NewBadgerCache(cache.Options{Directory: cfg.Cache.Directory})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return c, cfg, nil
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the archive cache",
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := openCache()
			if err != nil {
				return err
			}
			defer c.Close()

			stats := c.Stats()
			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "directory: %s\n", cfg.Cache.Directory)
			fmt.Fprintf(out, "enabled: %t\n", cfg.Cache.Enabled)
			for _, k := range keys {
				fmt.Fprintf(out, "%s: %v\n", k, stats[k])
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openCache()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}

	cmd.AddCommand(infoCmd, clearCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}
