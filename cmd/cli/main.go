package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kinko-cli",
		Short: "Kinko ledger CLI tool",
		Long:  `A command line interface for interacting with the Kinko ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}
	accountCmd.AddCommand(createAccountCmd(), getAccountCmd(), listEntriesCmd())

	clearingCmd := &cobra.Command{
		Use:   "clearing",
		Short: "Clearing account operations",
	}
	clearingCmd.AddCommand(settleCmd())

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(consistencyCmd())

	rootCmd.AddCommand(accountCmd, clearingCmd, ledgerCmd, transferCmd(), depositCmd())

	return rootCmd
}

func createAccountCmd() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/accounts", map[string]any{
				"currency": currency,
			})
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "USD", "Account currency")

	return cmd
}

func getAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an account and its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/" + args[0])
		},
	}
}

func listEntriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entries <id>",
		Short: "List an account's ledger entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/accounts/" + args[0] + "/entries")
		},
	}
}

func transferCmd() *cobra.Command {
	var (
		from     string
		to       string
		amount   int64
		currency string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer funds between accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/transfers", map[string]any{
				"from_account_id": from,
				"to_account_id":   to,
				"amount_cents":    amount,
				"currency":        currency,
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source account id")
	cmd.Flags().StringVar(&to, "to", "", "Destination account id")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in cents")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func depositCmd() *cobra.Command {
	var (
		account   string
		amount    int64
		reference string
	)

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Credit external funds to an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/deposits", map[string]any{
				"account_id":   account,
				"amount_cents": amount,
				"reference":    reference,
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Destination account id")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in cents")
	cmd.Flags().StringVar(&reference, "reference", "", "Correlation reference (optional)")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func settleCmd() *cobra.Command {
	var (
		amount    int64
		reference string
	)

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Record a provider payout on the clearing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/clearing/settlements", map[string]any{
				"amount_cents": amount,
				"reference":    reference,
			})
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in cents")
	cmd.Flags().StringVar(&reference, "reference", "", "Payout reference (optional)")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check that the ledger balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/ledger/consistency")
		},
	}
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postJSON(path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	client := &http.Client{Timeout: timeout}

	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	printJSON(json.RawMessage(body))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}

	fmt.Println(string(out))
}
