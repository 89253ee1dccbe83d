// Command moxide-ls is the moxide MyST language server's entry point.
//
// Run without arguments to serve the LSP over stdio (the invocation every
// editor extension uses); the daily-note and config-path subcommands
// expose the same vault-root resolution and config layering the server
// uses internally, for scripting and editor-command integration
// (spec.md §6).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/logging"
	"github.com/moxide-ls/moxide/lspserver"
	"github.com/moxide-ls/moxide/session"
)

const (
	exitOK            = 0
	exitError         = 1
	exitConfiguration = 2
)

var workspace string

var rootCmd = &cobra.Command{
	Use:   "moxide-ls",
	Short: "moxide-ls is a language server for MyST Markdown vaults",
	Long: `moxide-ls implements the Language Server Protocol for MyST
Markdown vaults: go-to-definition, find-references, hover, completion,
rename, diagnostics and code actions over cross-references, headings,
anchors, glossary terms and footnotes.

Run without arguments to serve LSP requests over stdin/stdout, the form
every editor extension launches.`,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "vault root (default: discovered from the current directory)")
	rootCmd.AddCommand(dailyNoteCmd, configPathCmd)
}

func main() {
	logging.Init()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	if _, ok := err.(*configurationError); ok {
		return exitConfiguration
	}
	return exitError
}

type configurationError struct{ err error }

func (e *configurationError) Error() string { return e.err.Error() }
func (e *configurationError) Unwrap() error { return e.err }

func resolveRoot() (string, error) {
	start := workspace
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", &configurationError{fmt.Errorf("resolving working directory: %w", err)}
		}
		start = wd
	} else if abs, err := filepath.Abs(start); err == nil {
		start = abs
	}

	root, ok := config.FindVaultRoot(start)
	if !ok {
		root = start
	}
	return root, nil
}

func loadConfig(root string) (config.Resolved, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return config.Resolved{}, &configurationError{fmt.Errorf("loading configuration: %w", err)}
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	log := logging.L()
	log.Info("starting moxide-ls", zap.String("root", root))

	sess := session.New(root, cfg, 0)
	srv := lspserver.New(sess, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	defer sess.StopWatcher()

	if err := srv.ServeStdio(ctx); err != nil {
		if err == context.Canceled {
			return nil
		}
		return fmt.Errorf("lsp server: %w", err)
	}
	return nil
}

var dailyNoteCmd = &cobra.Command{
	Use:   "daily-note",
	Short: "print the vault-relative path of today's daily note",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}
		name := time.Now().Format(cfg.DailyNote)
		fmt.Println(filepath.Join(cfg.DailyNotesFolder, name))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "config-path",
	Short: "print the path of the configuration file that would be loaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		fmt.Println(config.ActiveConfigPath(root))
		return nil
	},
}
