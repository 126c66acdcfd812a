package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Tiliavir/floatsync/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the Float access token in the OS keyring",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored Float access token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, args []string) error {
	fmt.Print("Float access token: ")
	tok, err := readSecret(os.Stdin)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	if err := config.StoreToken(tok); err != nil {
		return err
	}
	fmt.Println("Token stored in the OS keyring.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := config.DeleteToken(); err != nil {
		return err
	}
	fmt.Println("Token removed.")
	return nil
}

// readSecret reads without echo from a terminal, or a single line otherwise.
func readSecret(f *os.File) (string, error) {
	if term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
