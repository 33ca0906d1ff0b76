// Package cli wires the ERC-2335 keystore decoder and the block-states
// cache facade into a cobra command tree, grounded on the teacher's
// internal/cli.Application shape (one root command, global flags backed
// by internal/config, subcommands delegating to internal collaborators).
package cli

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/blocoeth/eth2-keyvault/internal/config"
	"github.com/blocoeth/eth2-keyvault/internal/erc2335"
	"github.com/blocoeth/eth2-keyvault/internal/scanner"
	"github.com/blocoeth/eth2-keyvault/internal/statecache"
	"github.com/blocoeth/eth2-keyvault/internal/tui"
	"github.com/blocoeth/eth2-keyvault/pkg/logging"
)

// Application is the eth2vault CLI: keystore decode/encode/scan plus a
// small cache demo that exercises the block-states facade end to end.
type Application struct {
	config    *config.Config
	rootCmd   *cobra.Command
	version   string
	gitCommit string
	buildTime string
}

// NewApplication builds the root command tree.
func NewApplication(cfg *config.Config, version, gitCommit, buildTime string) *Application {
	app := &Application{config: cfg, version: version, gitCommit: gitCommit, buildTime: buildTime}
	app.setupCommands()
	return app
}

// GetRootCommand returns the cobra root command for execution.
func (app *Application) GetRootCommand() *cobra.Command {
	return app.rootCmd
}

// ExecuteContext runs the CLI with ctx threaded down to every RunE.
func (app *Application) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

func (app *Application) setupCommands() {
	app.rootCmd = &cobra.Command{
		Use:   "eth2vault",
		Short: "ERC-2335 validator keystore decoder and block-states cache toolkit",
		Long: `eth2vault decodes and encodes ERC-2335 validator keystores and exposes
a demo of the bounded LRU block-states cache used by the beacon node's
gossip validator and fork-choice paths.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", app.version, app.gitCommit, app.buildTime),
	}

	app.rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")

	keystoreCmd := &cobra.Command{
		Use:   "keystore",
		Short: "Decode, encode, or batch-scan ERC-2335 keystores",
	}
	keystoreCmd.AddCommand(app.createDecodeCommand())
	keystoreCmd.AddCommand(app.createEncodeCommand())
	keystoreCmd.AddCommand(app.createScanCommand())

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Exercise the bounded block-states cache",
	}
	cacheCmd.AddCommand(app.createCacheDemoCommand())

	app.rootCmd.AddCommand(keystoreCmd)
	app.rootCmd.AddCommand(cacheCmd)
}

func (app *Application) createDecodeCommand() *cobra.Command {
	var passwordFile string
	cmd := &cobra.Command{
		Use:   "decode <keystore.json>",
		Short: "Decode a single ERC-2335 keystore and print its public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonBytes, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading keystore: %w", err)
			}
			password, err := os.ReadFile(passwordFile)
			if err != nil {
				return fmt.Errorf("reading password file: %w", err)
			}

			record, err := erc2335.Decode(jsonBytes, password)
			if err != nil {
				return err
			}
			defer record.Zeroize()

			fmt.Fprintf(cmd.OutOrStdout(), "pubkey: 0x%s\n", hex.EncodeToString(record.PublicKey))
			return nil
		},
	}
	cmd.Flags().StringVarP(&passwordFile, "password-file", "f", "", "path to the password file")
	_ = cmd.MarkFlagRequired("password-file")
	return cmd
}

func (app *Application) createEncodeCommand() *cobra.Command {
	var passwordFile string
	var kdfName string
	var outFile string
	cmd := &cobra.Command{
		Use:   "encode <hex-secret-key>",
		Short: "Encrypt a 32-byte BLS secret key into a version-4 ERC-2335 keystore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("decoding secret key hex: %w", err)
			}
			password, err := os.ReadFile(passwordFile)
			if err != nil {
				return fmt.Errorf("reading password file: %w", err)
			}

			doc, err := erc2335.Encode(secret, password, erc2335.EncodeOptions{KDF: kdfName})
			if err != nil {
				return err
			}

			if outFile == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(doc))
				return nil
			}
			return os.WriteFile(outFile, doc, 0o600)
		},
	}
	cmd.Flags().StringVarP(&passwordFile, "password-file", "f", "", "path to the password file")
	cmd.Flags().StringVar(&kdfName, "kdf", "scrypt", "KDF to use: scrypt or pbkdf2")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "output path (default: stdout)")
	_ = cmd.MarkFlagRequired("password-file")
	return cmd
}

func (app *Application) createScanCommand() *cobra.Command {
	var useTUI bool
	cmd := &cobra.Command{
		Use:   "scan <keystore-dir> <password-dir>",
		Short: "Decode every keystore in a directory, pairing by file name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newCLILogger(app.config)
			if err != nil {
				return err
			}
			defer logger.Close()

			s, err := scanner.New(scanner.Config{
				Concurrency:            app.config.Scan.PoolSize,
				RecentFailureCacheSize: app.config.Scan.FailureCacheSize,
			}, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			manager := tui.NewManager()
			runTUI := useTUI && manager.ShouldUseTUI()

			var program *tea.Program
			var programDone chan struct{}
			if runTUI {
				model := tui.NewScanModel(0)
				program = tea.NewProgram(model)
				programDone = make(chan struct{})
				go func() {
					defer close(programDone)
					_, _ = program.Run()
				}()
			}

			progress := func(done, total int, name string) {
				if program != nil {
					program.Send(tui.ScanProgressMsg{Done: done, Total: total, Name: name})
				}
			}

			result, err := s.Scan(cmd.Context(), args[0], args[1], progress)

			if program != nil {
				program.Quit()
				<-programDone
			}

			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "decoded %d keystore(s), %d failure(s)\n", len(result.Records), len(result.Failures))
			for _, f := range result.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "  FAILED %s: %v\n", f.Name, f.Err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&useTUI, "tui", false, "show an interactive progress bar while scanning")
	return cmd
}

func (app *Application) createCacheDemoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Populate and query the block-states cache against an in-memory store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newDemoStore()
			facade := statecache.New(store, statecache.WithBounds(
				app.config.Cache.BlockStates.MaxEntries,
				app.config.Cache.BlockStates.BatchPruneSize,
			))

			var root statecache.Root
			root[0] = 0x01
			payload := []byte(fmt.Sprintf("state-%d", time.Now().UnixNano()))

			if err := facade.StoreStateInfo(root, payload); err != nil {
				return err
			}
			got, err := facade.GetStateInfoOrFail(root)
			if err != nil {
				return err
			}

			stats := facade.Stats()
			out, _ := json.MarshalIndent(map[string]interface{}{
				"root":  fmt.Sprintf("0x%x", root),
				"state": string(got),
				"stats": stats,
			}, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return cmd
}

// demoStore is an in-memory statecache.Store used only by "cache demo";
// the real key-value database is explicitly out of scope (spec §1).
type demoStore struct {
	data map[statecache.Root][]byte
}

func newDemoStore() *demoStore {
	return &demoStore{data: make(map[statecache.Root][]byte)}
}

func (s *demoStore) GetState(root statecache.Root) ([]byte, bool, error) {
	v, ok := s.data[root]
	return v, ok, nil
}

func (s *demoStore) PutState(root statecache.Root, state []byte) error {
	s.data[root] = state
	return nil
}

func newCLILogger(cfg *config.Config) (logging.SecureLogger, error) {
	return logging.NewSecureLoggerFromConfig(
		cfg.Logging.Enabled,
		cfg.Logging.Level,
		cfg.Logging.Format,
		cfg.Logging.OutputFile,
	)
}
