package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pyscope/internal/cache"
	"github.com/mvp-joe/pyscope/internal/config"
	"github.com/mvp-joe/pyscope/internal/introspect"
)

var (
	introspectMode   string
	introspectOutput string
	introspectCache  bool
)

// introspectCmd represents the introspect command
var introspectCmd = &cobra.Command{
	Use:   "introspect <script>",
	Short: "Analyze a Python script and emit its metadata envelope",
	Long: `Analyze a single Python script and emit a JSON envelope describing it.

Modes:
  safe    - static analysis only; the script is never executed (default)
  import  - safe analysis plus a gated enhancement step that may execute
            code from the target script

A populated errors list inside the envelope is informational: the command
still exits 0 whenever a structurally complete result was produced.`,
	Args: cobra.ExactArgs(1),
	RunE: runIntrospect,
}

func init() {
	rootCmd.AddCommand(introspectCmd)
	introspectCmd.Flags().StringVar(&introspectMode, "mode", string(introspect.ModeSafe), "introspection mode (safe|import)")
	introspectCmd.Flags().StringVarP(&introspectOutput, "output", "o", "", "output file (default: stdout)")
	introspectCmd.Flags().BoolVar(&introspectCache, "cache", false, "consult and update the result cache")
}

func runIntrospect(cmd *cobra.Command, args []string) error {
	scriptPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve script path: %w", err)
	}

	mode, err := introspect.ParseMode(introspectMode)
	if err != nil {
		return err
	}

	result, err := introspectWithCache(scriptPath, mode)
	if err != nil {
		if errors.Is(err, introspect.ErrScriptNotFound) {
			return fmt.Errorf("script not found: %s", scriptPath)
		}
		return err
	}

	return emitResult(result)
}

// introspectWithCache runs the engine, going through the cache store when
// caching is enabled by flag or config. Cache failures degrade to a direct
// run; they never fail the introspection itself.
func introspectWithCache(scriptPath string, mode introspect.Mode) (*introspect.IntrospectionResult, error) {
	cfg, err := config.LoadFrom(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if !introspectCache && !cfg.Cache.Enabled {
		return introspect.Introspect(scriptPath, mode)
	}

	store, err := cache.Open(cfg.Cache.BaseDir)
	if err != nil {
		if verbose {
			log.Printf("Cache unavailable, analyzing directly: %v", err)
		}
		return introspect.Introspect(scriptPath, mode)
	}
	defer store.Close()

	if cached, ok, err := store.Get(scriptPath); err == nil && ok {
		if verbose {
			log.Printf("Cache hit for %s", scriptPath)
		}
		return cached, nil
	} else if err != nil && verbose {
		log.Printf("Cache read failed: %v", err)
	}

	result, err := introspect.Introspect(scriptPath, mode)
	if err != nil {
		return nil, err
	}

	if err := store.Put(scriptPath, result); err != nil && verbose {
		log.Printf("Cache write failed: %v", err)
	}
	return result, nil
}

func emitResult(result *introspect.IntrospectionResult) error {
	if introspectOutput == "" {
		return result.EncodeJSON(os.Stdout)
	}

	f, err := os.Create(introspectOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := result.EncodeJSON(f); err != nil {
		return err
	}
	return f.Close()
}
