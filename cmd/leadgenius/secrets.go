package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tsukumogami/leadgenius/internal/secrets"
)

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage API keys",
	Long: `Manage the API keys used to reach the generation providers.

Keys are resolved from environment variables (including .env files), then
the OS keyring, then the [secrets] section of config.toml.

Examples:
  leadgenius secrets list
  leadgenius secrets set google_api_key
  echo "$KEY" | leadgenius secrets set anthropic_api_key
  leadgenius secrets rm google_api_key`,
}

var secretsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which keys are configured and where they come from",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range secrets.KnownKeys() {
			_, src, err := secrets.Lookup(k.Name)
			status := "not set"
			if err == nil {
				status = "set (" + string(src) + ")"
			}
			fmt.Printf("%-20s %-16s %s\n", k.Name, status, strings.Join(k.EnvVars, ", "))
		}
	},
}

var secretsSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Store a key in the OS keyring",
	Long: `Store a key in the OS keyring. The value is read from stdin so it
never appears in shell history or the process list.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		value, err := readSecretValue(os.Stdin, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitWithCode(ExitGeneral)
		}

		if err := secrets.Set(name, value); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitWithCode(ExitUsage)
		}
		printInfof("Stored %s in the OS keyring\n", name)
	},
}

var secretsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a key from the OS keyring",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := secrets.Delete(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitWithCode(ExitUsage)
		}
		printInfof("Removed %s from the OS keyring\n", args[0])
	},
}

func init() {
	secretsCmd.AddCommand(secretsListCmd)
	secretsCmd.AddCommand(secretsSetCmd)
	secretsCmd.AddCommand(secretsRmCmd)
}

// readSecretValue reads one line from in. On a terminal it prompts and
// disables echo.
func readSecretValue(in *os.File, name string) (string, error) {
	if term.IsTerminal(int(in.Fd())) {
		fmt.Fprintf(os.Stderr, "Enter value for %s: ", name)
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read value: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read value: %w", err)
	}
	return strings.TrimSpace(line), nil
}
