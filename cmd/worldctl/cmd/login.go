package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Authenticate against the worldserver and persist the session cookie",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	f := newFormatter()
	if isDryrun() {
		return f.PrintSuccess(fmt.Sprintf("would log in as %q against %s", args[0], c.base))
	}
	resp, err := c.do(http.MethodPost, "/api/auth/login", map[string]string{"username": args[0]})
	if err != nil {
		return f.PrintError(err)
	}
	var out map[string]any
	if err := decode(resp, &out); err != nil {
		return f.PrintError(err)
	}
	return f.PrintSuccess(fmt.Sprintf("logged in as %q", args[0]))
}
