package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantmind-br/see/internal/store"
	"github.com/quantmind-br/see/internal/utils"
)

var (
	// Dependencies for testing
	providerURLs = []string{"https://github.com", "https://gitlab.com"}
	doctorClient = &http.Client{Timeout: 5 * time.Second}
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment see depends on",
		Long:  "Verifies provider connectivity, the config file, the template store and the cache directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Checking environment...")
			allPassed := true

			// Check 1: Providers
			for _, u := range providerURLs {
				fmt.Fprintf(out, "  %s: ", u)
				if checkReachable(cmd.Context(), u) {
					fmt.Fprintln(out, "OK")
				} else {
					fmt.Fprintln(out, "FAILED")
					allPassed = false
				}
			}

			// Check 2: Write permissions for the default destination
			fmt.Fprint(out, "  Write permissions: ")
			if checkWritePermissions(".") {
				fmt.Fprintln(out, "OK")
			} else {
				fmt.Fprintln(out, "FAILED")
				allPassed = false
			}

			// Check 3: Config file
			fmt.Fprint(out, "  Config file: ")
			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(out, "FAILED (%v)\n", err)
				return nil
			}
			if !fileExists(configPath()) {
				fmt.Fprintln(out, "OK (defaults)")
			} else {
				fmt.Fprintf(out, "OK (%s)\n", configPath())
			}

			// Check 4: Template store
			fmt.Fprint(out, "  Template store: ")
			if n, err := checkStore(cfg.Store.Path); err != nil {
				fmt.Fprintf(out, "FAILED (%v)\n", err)
				allPassed = false
			} else {
				fmt.Fprintf(out, "OK (%s, %d templates)\n", cfg.Store.Path, n)
			}

			// Check 5: Cache directory
			fmt.Fprint(out, "  Cache directory: ")
			cacheDir := utils.ExpandPath(cfg.Cache.Directory)
			switch {
			case !cfg.Cache.Enabled:
				fmt.Fprintln(out, "disabled")
			case checkCacheDir(cacheDir):
				fmt.Fprintf(out, "OK (%s)\n", cacheDir)
			default:
				fmt.Fprintln(out, "WARN (will be created on first use)")
			}

			fmt.Fprintln(out)
			if allPassed {
				fmt.Fprintln(out, "All critical checks passed!")
			} else {
				fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
			}
			return nil
		},
	}
}

// checkReachable sends a HEAD request to rawURL
func checkReachable(ctx context.Context, rawURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}

	resp, err := doctorClient.Do(req)
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode < 400
}

// checkWritePermissions checks if we can create a file in dir
func checkWritePermissions(dir string) bool {
	f, err := os.CreateTemp(dir, ".see-write-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	return os.Remove(name) == nil
}

// checkStore loads the store file and returns how many templates it holds
func checkStore(path string) (int, error) {
	data, err := store.New(store.Options{Path: path}).Load()
	if err != nil {
		return 0, err
	}
	return len(data.List), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// checkCacheDir checks if the cache directory exists
func checkCacheDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
