package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go-kintai/internal/auth"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// HashPasswordCmd prints a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash of a password",
		Long: `Print a bcrypt hash of a password. Without an argument the password
is prompted for twice on a terminal, or read from the first line of a
piped stdin, which keeps it out of shell history.

Examples:
  kintaictl hash-password 's3cret'
  echo 's3cret' | kintaictl hash-password
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			switch {
			case len(args) == 1:
				password = args[0]
			case isTerminal(cmd.InOrStdin()):
				p, err := promptPassword(cmd)
				if err != nil {
					return err
				}
				password = p
			default:
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// promptPassword reads the password twice without echo.
func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(cmd.InOrStdin().(*os.File).Fd())
	errOut := cmd.ErrOrStderr()

	fmt.Fprint(errOut, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", err
	}
	fmt.Fprint(errOut, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
