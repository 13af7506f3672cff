// Command hashpw prints the bcrypt hash to use as AUTH_PASSWORD_HASH.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"libraryapi/internal/auth"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "hashpw: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "hashpw",
		Usage:     "hash an API password with bcrypt",
		ArgsUsage: "[password]  (read from stdin when omitted)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "allow-weak", Usage: "skip the password strength check"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			password := cmd.Args().First()
			if password == "" {
				var err error
				if password, err = readPassword(cmd.Root().Reader); err != nil {
					return err
				}
			}
			if !cmd.Bool("allow-weak") {
				if err := auth.CheckPasswordStrength(password); err != nil {
					return err
				}
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, hash)
			return err
		},
	}
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password")
	}
	return line, nil
}
