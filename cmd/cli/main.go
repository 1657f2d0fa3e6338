package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/frank113/FinDash/internal/adapter/http/dto"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "findash-cli",
		Short: "FinDash CLI tool",
		Long:  `A command line interface for interacting with the FinDash API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FinDash API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(accountsCmd())
	rootCmd.AddCommand(institutionsCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(trendCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var name, institution string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Run: func(cmd *cobra.Command, args []string) {
			var resp dto.AccountResponse
			postJSON("/api/v1/accounts/", dto.CreateAccountRequest{
				Name:        name,
				Institution: institution,
			}, &resp)
			fmt.Printf("Created account %s (%s, %s)\n", resp.ID, resp.Name, resp.Institution)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Account name")
	createCmd.Flags().StringVar(&institution, "institution", "generic", "Statement institution variant")
	createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			var resp dto.ListAccountsResponse
			getJSON("/api/v1/accounts/", &resp)
			for _, a := range resp.Accounts {
				fmt.Printf("%s  %-30s %s\n", a.ID, a.Name, a.Institution)
			}
			fmt.Printf("%d account(s)\n", resp.Total)
		},
	}

	cmd.AddCommand(createCmd, listCmd)
	return cmd
}

func institutionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "institutions",
		Short: "List supported statement institutions",
		Run: func(cmd *cobra.Command, args []string) {
			var resp dto.InstitutionsResponse
			getJSON("/api/v1/institutions", &resp)
			for _, name := range resp.Institutions {
				fmt.Println(name)
			}
		},
	}
}

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Category operations",
	}

	var name string
	var goal int64
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Run: func(cmd *cobra.Command, args []string) {
			req := dto.CreateCategoryRequest{Name: name}
			if cmd.Flags().Changed("goal") {
				req.MonthlyGoal = &goal
			}
			var resp dto.CategoryResponse
			postJSON("/api/v1/categories/", req, &resp)
			fmt.Printf("Created category %s (%s)\n", resp.ID, resp.Name)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Category name")
	createCmd.Flags().Int64Var(&goal, "goal", 0, "Monthly goal in minor units (expenses negative)")
	createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Run: func(cmd *cobra.Command, args []string) {
			var resp dto.ListCategoriesResponse
			getJSON("/api/v1/categories/", &resp)
			for _, c := range resp.Categories {
				goalStr := "-"
				if c.MonthlyGoal != nil {
					goalStr = formatAmount(*c.MonthlyGoal)
				}
				fmt.Printf("%s  %-24s goal %s\n", c.ID, c.Name, goalStr)
			}
			fmt.Printf("%d categor(ies)\n", resp.Total)
		},
	}

	cmd.AddCommand(createCmd, listCmd)
	return cmd
}

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Categorization rule operations",
	}

	var pattern, categoryID string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a payee rule",
		Run: func(cmd *cobra.Command, args []string) {
			var resp dto.RuleResponse
			postJSON("/api/v1/rules/", dto.CreateRuleRequest{
				Pattern:    pattern,
				CategoryID: categoryID,
			}, &resp)
			fmt.Printf("Created rule %s (%q -> %s)\n", resp.ID, resp.Pattern, resp.CategoryID)
		},
	}
	createCmd.Flags().StringVar(&pattern, "pattern", "", "Substring matched against descriptions")
	createCmd.Flags().StringVar(&categoryID, "category", "", "Category ID to assign")
	createCmd.MarkFlagRequired("pattern")
	createCmd.MarkFlagRequired("category")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List payee rules",
		Run: func(cmd *cobra.Command, args []string) {
			var resp dto.ListRulesResponse
			getJSON("/api/v1/rules/", &resp)
			for _, r := range resp.Rules {
				fmt.Printf("%s  %-24q -> %s\n", r.ID, r.Pattern, r.CategoryID)
			}
			fmt.Printf("%d rule(s)\n", resp.Total)
		},
	}

	cmd.AddCommand(createCmd, listCmd)
	return cmd
}

func importCmd() *cobra.Command {
	var accountID string
	var strict bool

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import statement CSV files into an account",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, path := range args {
				importFile(accountID, path, strict)
			}
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "Account ID to import into")
	cmd.Flags().BoolVar(&strict, "strict", false, "Refuse the whole file if any row is malformed")
	cmd.MarkFlagRequired("account")
	return cmd
}

func importFile(accountID, path string, strict bool) {
	file, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error opening %s: %v\n", path, err)
		os.Exit(1)
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("account_id", accountID)
	mw.WriteField("strict", strconv.FormatBool(strict))
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		fmt.Printf("Error building upload: %v\n", err)
		os.Exit(1)
	}
	if _, err := io.Copy(part, file); err != nil {
		fmt.Printf("Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	mw.Close()

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/imports", mw.FormDataContentType(), &buf)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var result dto.ImportResponse
	if err := json.Unmarshal(body, &result); err != nil || (resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnprocessableEntity) {
		fmt.Printf("Import of %s failed (Status: %d)\nResponse: %s\n", path, resp.StatusCode, string(body))
		os.Exit(1)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		fmt.Printf("%s: REFUSED (strict mode, %d malformed row(s))\n", path, len(result.Malformed))
		for _, row := range result.Malformed {
			fmt.Printf("  line %d: %s\n", row.Line, row.Reason)
		}
		os.Exit(1)
	}

	fmt.Printf("%s: admitted %d, duplicates %d, auto-categorized %d\n",
		path, result.Admitted, result.Duplicates, result.AutoCategorized)
	for _, row := range result.Malformed {
		fmt.Printf("  skipped line %d: %s\n", row.Line, row.Reason)
	}
}

func reportCmd() *cobra.Command {
	var accounts string

	cmd := &cobra.Command{
		Use:   "report <month>",
		Short: "Show the budget report for a month (YYYY-MM)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/reports/" + args[0]
			if accounts != "" {
				path += "?accounts=" + url.QueryEscape(accounts)
			}
			var resp dto.BudgetReportResponse
			getJSON(path, &resp)
			printReport(&resp)
		},
	}
	cmd.Flags().StringVar(&accounts, "accounts", "", "Comma-separated account IDs to include")
	return cmd
}

func trendCmd() *cobra.Command {
	var from, to, accounts string

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show budget reports for a range of months",
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			query.Set("from", from)
			query.Set("to", to)
			if accounts != "" {
				query.Set("accounts", accounts)
			}
			var resp dto.TrendResponse
			getJSON("/api/v1/reports/trend?"+query.Encode(), &resp)
			for _, month := range resp.Months {
				printReport(month)
				fmt.Println()
			}
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First month (YYYY-MM)")
	cmd.Flags().StringVar(&to, "to", "", "Last month (YYYY-MM)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func printReport(r *dto.BudgetReportResponse) {
	fmt.Printf("Budget report for %s\n", r.Month)
	for _, line := range r.Lines {
		if line.Goal != nil && line.Delta != nil {
			fmt.Printf("  %-24s %12s  goal %12s  delta %12s\n",
				line.Name, formatAmount(line.Actual), formatAmount(*line.Goal), formatAmount(*line.Delta))
			continue
		}
		fmt.Printf("  %-24s %12s\n", line.Name, formatAmount(line.Actual))
	}
	fmt.Printf("  %-24s %12s\n", "(uncategorized)", formatAmount(r.Uncategorized))
	fmt.Printf("  %-24s %12s\n", "total", formatAmount(r.Total))
}

// formatAmount renders minor units as a decimal string, keeping the
// ledger sign convention (expenses negative).
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func getJSON(path string, out any) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	if err := json.Unmarshal(body, out); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
}

func postJSON(path string, payload, out any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	if err := json.Unmarshal(body, out); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
}
