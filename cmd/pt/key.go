package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/driveline/placetrack/internal/credentials"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the Gemini API key",
		Long: `Stores the Gemini API key used for message extraction. The key is
kept in a user-only file; the GEMINI_API_KEY environment variable
overrides it when set.`,
	}

	cmd.AddCommand(newKeySetCmd())
	cmd.AddCommand(newKeyShowCmd())
	cmd.AddCommand(newKeyClearCmd())
	return cmd
}

func newKeySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Prompt for and store the API key",
		RunE:  runKeySet,
	}
}

func runKeySet(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	key, err := readKey(cmd)
	if err != nil {
		return err
	}

	store := credentials.DefaultStore()
	if err := store.Save(key); err != nil {
		return err
	}
	fmt.Fprintln(out, "API key saved.")
	return nil
}

// readKey reads the key without echo when stdin is a terminal, and as a
// plain line otherwise (so it can be piped in).
func readKey(cmd *cobra.Command) (string, error) {
	out := cmd.OutOrStdout()

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Gemini API key: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	return "", fmt.Errorf("no key given")
}

func newKeyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored API key (masked)",
		RunE:  runKeyShow,
	}
}

func runKeyShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	key, err := credentials.DefaultStore().Get()
	if errors.Is(err, credentials.ErrNotFound) {
		fmt.Fprintln(out, "No API key configured. Run `pt key set`.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "API key: %s\n", maskKey(key))
	if os.Getenv(credentials.EnvVar) != "" {
		fmt.Fprintf(out, "(from %s environment variable)\n", credentials.EnvVar)
	}
	return nil
}

// maskKey keeps just enough of the key to recognize it.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func newKeyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored API key",
		RunE:  runKeyClear,
	}
}

func runKeyClear(cmd *cobra.Command, args []string) error {
	if err := credentials.DefaultStore().Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "API key cleared.")
	return nil
}
