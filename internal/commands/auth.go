package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"daily/internal/auth"
)

type loginOptions struct {
	Email    string
	Password string
	SignUp   bool
}

func addLogin(topLevel *cobra.Command) {
	o := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in, or create an account with --signup.",
		Example: `
daily login --email ada@example.com
daily login --email ada@example.com --signup
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.Email == "" {
				return errors.New("--email is required")
			}
			if o.Password == "" {
				pw, err := readPassword(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				o.Password = pw
			}

			e, err := loadEnv(nil)
			if err != nil {
				return err
			}
			defer e.Close()

			l := &auth.Login{Email: o.Email, Password: o.Password, SignUp: o.SignUp}
			l.Submit(cmd.Context(), e.gotrue, e.logger)
			switch {
			case l.Message != "":
				return errors.New(l.Message)
			case l.ConfirmationSent:
				_, err = fmt.Fprintln(cmd.OutOrStdout(), auth.ConfirmationText(strings.TrimSpace(o.Email)))
				return err
			}
			u, err := e.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", u.Email)
			return err
		},
	}

	cmd.Flags().StringVar(&o.Email, "email", "", "Account email.")
	cmd.Flags().StringVar(&o.Password, "password", "", "Account password (read from stdin when omitted).")
	cmd.Flags().BoolVar(&o.SignUp, "signup", false, "Create a new account instead of signing in.")

	topLevel.AddCommand(cmd)
}

func readPassword(in io.Reader, out io.Writer) (string, error) {
	_, _ = fmt.Fprint(out, "Password: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(nil)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.gotrue.SignOut(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return err
		},
	}

	topLevel.AddCommand(cmd)
}

func addWhoami(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(nil)
			if err != nil {
				return err
			}
			defer e.Close()
			u, err := e.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", u.Email, u.ID)
			return err
		},
	}

	topLevel.AddCommand(cmd)
}
