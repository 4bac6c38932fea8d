package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantmind-br/see/internal/app"
	"github.com/quantmind-br/see/internal/config"
	"github.com/quantmind-br/see/internal/domain"
	"github.com/quantmind-br/see/internal/tui"
	"github.com/quantmind-br/see/internal/utils"
	"github.com/quantmind-br/see/pkg/version"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	force     bool
	mode      string
	useCache  bool
	offline   bool
	storePath string

	// Dependencies for testing
	newRunner = app.NewRunner
	runEditor = tui.Run
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		printError(os.Stderr, err)
	}
	cancel()
	os.Exit(domain.ExitCode(err))
}

func newRootCmd() *cobra.Command {
	resetFlags()

	rootCmd := &cobra.Command{
		Use:   "see [reference] [dest]",
		Short: "Pull template repositories from GitHub and GitLab",
		Long: `see downloads a repository archive and unpacks it into a directory,
without the wrapper folder the provider adds.

References can be short (user/name), aliased (gitlab:user/name#ref),
full URLs (https://gitlab.com/user/name) or SSH addresses
(git@github.com:user/name.git). Every pulled repository is remembered
so it can be picked again with "see select".

With no arguments see asks which remembered template to use.`,
		Version:       version.Short(),
		Args:          cobra.MaximumNArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runRoot,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is "+config.ConfigFilePath()+")")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	pf.StringVar(&storePath, "store", "", "Template store file (default is ~/.see)")

	// Fetch flags
	addFetchFlags(rootCmd)

	rootCmd.AddCommand(
		newPullCmd(),
		newSelectCmd(),
		newSetTokenCmd(),
		newListCmd(),
		newRemoveCmd(),
		newImportCmd(),
		newExportCmd(),
		newConfigCmd(),
		newCacheCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func resetFlags() {
	cfgFile, storePath, mode = "", "", ""
	verbose, quiet, force, useCache, offline = false, false, false, false, false
}

func addFetchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVarP(&force, "force", "f", false, "Overwrite a non-empty destination without asking")
	flags.StringVar(&mode, "mode", "", "Transport: tar (default) or git")
	flags.BoolVar(&useCache, "cache", false, "Keep downloaded archives in the local cache")
	flags.BoolVar(&offline, "offline", false, "Extract from the local cache without network access")
}

func runRoot(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return runSelect(cmd, app.DefaultDest)
	case 1:
		return runPull(cmd, args[0], app.DefaultDest)
	default:
		return runPull(cmd, args[0], args[1])
	}
}

// loadConfig merges flags over the file, environment and defaults
func loadConfig() (*config.Config, error) {
	cfg, _, err := config.LoadWithViper(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if useCache || offline {
		cfg.Cache.Enabled = true
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

func setupRunner(cmd *cobra.Command) (*app.Runner, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cmd.ErrOrStderr(),
		Verbose: verbose,
	})

	opts := app.Options{
		Config:  cfg,
		Verbose: verbose,
		Logger:  logger,
	}
	if !quiet {
		opts.Observer = utils.NewBarObserver(cmd.ErrOrStderr())
		opts.Progress = cmd.ErrOrStderr()
	}

	runner, err := newRunner(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}
	return runner, nil
}

func fetchOptions() (domain.FetchOptions, error) {
	m, err := app.ParseMode(mode)
	if err != nil {
		return domain.FetchOptions{}, err
	}
	return domain.FetchOptions{Force: force, Mode: m, Offline: offline}, nil
}

func runPull(cmd *cobra.Command, reference, dest string) error {
	opts, err := fetchOptions()
	if err != nil {
		return err
	}

	runner, err := setupRunner(cmd)
	if err != nil {
		return err
	}
	defer runner.Close()

	ref, err := runner.Resolve(reference)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Downloading %s to %s\n", ref.URL, dest)

	result, err := runner.Pull(cmd.Context(), reference, dest, opts)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func runSelect(cmd *cobra.Command, dest string) error {
	opts, err := fetchOptions()
	if err != nil {
		return err
	}

	runner, err := setupRunner(cmd)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Select(cmd.Context(), dest, opts)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func printResult(w io.Writer, result *domain.Unpacked) {
	msg := fmt.Sprintf("Download succeeded: %d files in %s", len(result.Files), result.Dest)
	if result.Source != "" && result.Source != "network" {
		msg += fmt.Sprintf(" (from %s)", result.Source)
	}
	fmt.Fprintln(w, tui.SuccessStyle.Render(msg))
	if result.Skipped > 0 {
		fmt.Fprintln(w, tui.WarnStyle.Render(fmt.Sprintf("%d entries skipped, run with -v for details", result.Skipped)))
	}
}

// printError writes the one-line diagnostic and, when there is one, the fix
func printError(w io.Writer, err error) {
	if domain.IsUserCancellation(err) {
		fmt.Fprintln(w, tui.WarnStyle.Render(err.Error()))
		return
	}
	fmt.Fprintln(w, tui.ErrorStyle.Render("Error: "+err.Error()))
	if hint := domain.Remediation(err); hint != "" {
		fmt.Fprintln(w, tui.HintStyle.Render(hint))
	}
}
