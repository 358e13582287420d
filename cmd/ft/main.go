package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ft-go/internal/app"
	"ft-go/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// EnvPassphrase unlocks an encrypted snapshot without prompting.
const EnvPassphrase = "FT_PASSPHRASE"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

// loadConfig resolves the effective config: defaults, then the config file,
// then .env and FT_* environment overrides.
func loadConfig() (*config.Config, *app.Defaults, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("getting defaults: %w", err)
	}
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(defaults.ConfigPath, defaults.BaseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, nil, fmt.Errorf("applying environment: %w", err)
	}
	return cfg, defaults, nil
}

// newApp reads the config and creates an FTApp. The caller must defer app.Close().
func newApp(cmd *cobra.Command) (*app.FTApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Snapshot.Type = "memory"
		cfg.Snapshot.Encrypt = false
	}

	a, err := app.NewFTApp(cmd.Context(), cfg, app.Options{
		Verbose:    verbose,
		UserAgent:  "ft/" + version,
		Passphrase: readPassphrase,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// readPassphrase takes FT_PASSPHRASE if set, otherwise prompts on the terminal.
func readPassphrase() (string, error) {
	if p := os.Getenv(EnvPassphrase); p != "" {
		return p, nil
	}
	return promptPassphrase("Passphrase: ")
}

func promptPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%s is not set and stdin is not a terminal", EnvPassphrase)
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

var rootCmd = &cobra.Command{
	Use:           "ft",
	Short:         "Track flights through the flight tracking backend",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the backend connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("%w: %w", errHealthFailed, err)
		}
		fmt.Printf("Connected: %s\n", resp.Status)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked flights",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cached, _ := cmd.Flags().GetBool("cached")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		// A failed load still shows the cached collection before the error.
		flights, err := a.List(cmd.Context(), cached)
		newStdoutRenderer().flights(flights)
		return err
	},
}

var addCmd = &cobra.Command{
	Use:   "add FLIGHT_NUMBER",
	Short: "Track a flight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		flight, err := a.Add(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added flight %s (%s)\n", flight.FlightNumber, flight.ID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Stop tracking a flight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted flight %s\n", args[0])
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the status of every flight",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		updated, flights, err := a.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Refreshed %d flight(s)\n\n", updated)
		newStdoutRenderer().flights(flights)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(cmd.Context(), limit)
		if err != nil {
			return err
		}
		newStdoutRenderer().operations(ops)
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg := config.NewConfig(defaults.BaseDir)
		cfg.Snapshot.Encrypt = encrypt

		var passphrase string
		if encrypt {
			if passphrase, err = newPassphrase(); err != nil {
				return err
			}
		}

		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Base Dir: %s\n", defaults.BaseDir)

		if encrypt {
			if err := app.SetupEncryption(cfg.Encryption, passphrase); err != nil {
				return err
			}
			fmt.Printf("Snapshot key pair written to %s\n", cfg.Encryption.PublicKeyPath)
		}
		return nil
	},
}

// newPassphrase reads a passphrase for a new key pair, asking twice on a terminal.
func newPassphrase() (string, error) {
	if p := os.Getenv(EnvPassphrase); p != "" {
		return p, nil
	}
	first, err := promptPassphrase("New passphrase: ")
	if err != nil {
		return "", err
	}
	second, err := promptPassphrase("Confirm passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passphrases do not match")
	}
	return first, nil
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, defaults, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		m := &config.Manager{}
		return m.Write(os.Stdout, redacted(cfg))
	},
}

// redacted returns a copy of cfg with secrets masked.
func redacted(cfg *config.Config) *config.Config {
	out := *cfg
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return strings.Repeat("*", 8)
	}
	out.Snapshot.S3SecretAccessKey = mask(out.Snapshot.S3SecretAccessKey)
	out.Snapshot.RedisPassword = mask(out.Snapshot.RedisPassword)
	return &out
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Mirror the log to stderr")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Keep the snapshot in memory for this run only")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("encrypt", false, "Encrypt the local snapshot and generate a key pair")
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("cached", false, "Show the local snapshot without contacting the backend")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
