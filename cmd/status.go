package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"

	"github.com/angelofallars/rentbill/internal/dom"
	"github.com/angelofallars/rentbill/internal/status"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <invoice-id> <status>",
	Short: "Change an invoice's status on a running server",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		server, _ := cmd.Flags().GetString("server")
		server = strings.TrimRight(server, "/")

		base, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("invalid server URL: %w", err)
		}

		jar, err := cookiejar.New(nil)
		if err != nil {
			return err
		}
		httpClient := &http.Client{Jar: jar}

		token, err := fetchCSRFToken(httpClient, base, cfg.CSRFCookieName)
		if err != nil {
			return err
		}

		doc := dom.NewDocument()
		form := doc.AddForm(dom.NewForm(fmt.Sprintf("%s/invoices/%s/status", server, args[0]), status.FormClass).
			SetField(status.TokenField, token).
			SetField("status", ""))

		var alerted []string
		notifier := status.NotifierFunc(func(message string) {
			alerted = append(alerted, message)
			fmt.Fprintln(cmd.OutOrStdout(), message)
		})

		submitter := status.NewSubmitter(status.NewClient(httpClient), notifier, cfg.Logger(os.Stderr))
		submitter.Bind(cmd.Context(), doc)

		form.Select("status", args[1])
		submitter.Wait()

		switch {
		case len(alerted) == 0:
			return errors.New("status update did not complete")
		case strings.HasPrefix(alerted[0], "Error: "):
			return errors.New("status update rejected")
		}
		return nil
	},
}

// fetchCSRFToken loads the manage page so the server issues a token
// cookie into the client's jar.
func fetchCSRFToken(httpClient *http.Client, base *url.URL, cookieName string) (string, error) {
	resp, err := httpClient.Get(base.String() + "/")
	if err != nil {
		return "", fmt.Errorf("fetching CSRF token: %w", err)
	}
	resp.Body.Close()

	for _, cookie := range httpClient.Jar.Cookies(base) {
		if cookie.Name == cookieName {
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("server did not issue a %s cookie", cookieName)
}

func init() {
	statusCmd.Flags().String("server", "http://localhost:3000", "base URL of the rentbill server")
	rootCmd.AddCommand(statusCmd)
}
