package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"homebook/internal/amqp"
	"homebook/internal/charts"
	"homebook/internal/cli"
	"homebook/internal/core"
	"homebook/internal/export"
	"homebook/internal/ledger"
	"homebook/internal/worker"
)

// NewFinanceCommand creates the finance root command with all subcommands registered.
func NewFinanceCommand(env *Env) *cobra.Command {
	rootCmd := newRoot("finance", "Track income and expenses in a local ledger")

	rootCmd.AddCommand(
		newAddCommand(env),
		newDeleteCommand(env),
		newListCommand(env),
		newBalanceCommand(env),
		newReportCommand(env),
		newTrendCommand(env),
		newClearCommand(env),
		newCurrencyCommand(env),
		newCategoriesCommand(),
		newSeedCommand(env),
		newExportCommand(env),
		newChartCommand(env),
		newEventsCommand(env),
		newSyncSheetsCommand(env),
	)
	return rootCmd
}

func newAddCommand(env *Env) *cobra.Command {
	var category, date, currency, description string

	cmd := &cobra.Command{
		Use:   "add income|expense AMOUNT",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := core.ParseKind(args[0])
			if err != nil {
				return err
			}
			amount, err := core.ParseAmount(args[1])
			if err != nil {
				return err
			}
			if date == "" {
				date = env.Now().Format(core.DateLayout)
			}
			var cur core.Currency
			if currency != "" {
				if cur, err = core.ParseCurrency(currency); err != nil {
					return fmt.Errorf("%w: %q", err, currency)
				}
			}

			return env.withLedger(cmd.Context(), func(e *ledger.Engine) error {
				id, err := e.AddTransaction(cmd.Context(), ledger.NewTransaction{
					Date:        date,
					Kind:        kind,
					Category:    category,
					Amount:      amount,
					Currency:    cur,
					Description: description,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Transaction %d added successfully!\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category, e.g. Food or Salary (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default: the ledger's default currency)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "free-text description")
	return cmd
}

func newDeleteCommand(env *Env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: invalid transaction id %q", core.ErrValidation, args[0])
			}
			ctx := cmd.Context()
			return env.withLedger(ctx, func(e *ledger.Engine) error {
				tx, err := e.GetTransaction(ctx, id)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if !yes {
					ok, err := confirm(cmd.InOrStdin(), w, fmt.Sprintf(
						"Delete transaction %d?\n  Date: %s\n  Type: %s\n  Amount: %s\n  Category: %s\nContinue? [y/N]: ",
						tx.ID, tx.Date, tx.Kind, core.FormatAmount(tx.Amount, tx.Currency), tx.Category))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(w, "Aborted.")
						return nil
					}
				}
				if err := e.DeleteTransaction(ctx, id); err != nil {
					return err
				}
				fmt.Fprintln(w, "Transaction deleted successfully!")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newListCommand(env *Env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = env.Config.ListLimit
			}
			return env.withLedger(cmd.Context(), func(e *ledger.Engine) error {
				txs, err := e.ListTransactions(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printTransactions(cmd.OutOrStdout(), txs)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most N transactions (0 for all; default $LIST_LIMIT)")
	return cmd
}

func newBalanceCommand(env *Env) *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show total income, expenses and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return env.withLedger(ctx, func(e *ledger.Engine) error {
				cur, display, err := resolveCurrency(ctx, e, currency)
				if err != nil {
					return err
				}
				b, err := e.ComputeBalance(ctx, cur)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Total Income:   %s\n", core.FormatAmount(b.TotalIncome, display))
				fmt.Fprintf(w, "Total Expenses: %s\n", core.FormatAmount(b.TotalExpenses, display))
				fmt.Fprintf(w, "Balance:        %s\n", core.FormatAmount(b.Balance, display))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "only count transactions in this currency (default: all)")
	return cmd
}

func newReportCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "report [YYYY-MM]",
		Short: "Show the monthly report (default: current month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := env.Now().Format(core.MonthLayout)
			if len(args) == 1 {
				month = args[0]
			}
			ctx := cmd.Context()
			return env.withLedger(ctx, func(e *ledger.Engine) error {
				r, err := e.MonthlyReport(ctx, month)
				if err != nil {
					return err
				}
				cur, err := e.DefaultCurrency(ctx)
				if err != nil {
					return err
				}
				return printReport(cmd.OutOrStdout(), r, cur)
			})
		},
	}
}

func newTrendCommand(env *Env) *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show income, expenses and net per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return env.withLedger(ctx, func(e *ledger.Engine) error {
				cur, display, err := resolveCurrency(ctx, e, currency)
				if err != nil {
					return err
				}
				points, err := e.Trend(ctx, cur)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(points) == 0 {
					fmt.Fprintln(w, "No transaction data.")
					return nil
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSES\tNET\t")
				for _, p := range points {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", p.Month,
						core.FormatAmount(p.Income, display),
						core.FormatAmount(p.Expenses, display),
						core.FormatAmount(p.Net, display))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "only count transactions in this currency (default: all)")
	return cmd
}

func newClearCommand(env *Env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all transactions, budgets and savings goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
					"This will permanently delete ALL transactions, budgets and savings goals. Continue? [y/N]: ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			return env.withLedger(cmd.Context(), func(e *ledger.Engine) error {
				if err := e.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All data has been cleared successfully!")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newCurrencyCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "currency [CODE]",
		Short: "Show or set the default currency (" + currencyCodes() + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return env.withLedger(ctx, func(e *ledger.Engine) error {
				if len(args) == 0 {
					cur, err := e.DefaultCurrency(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Default currency: %s (%s)\n", cur, cur.Symbol())
					return nil
				}
				if err := e.SetDefaultCurrency(ctx, args[0]); err != nil {
					return err
				}
				cur, _ := core.ParseCurrency(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Default currency set to %s\n", cur)
				return nil
			})
		},
	}
}

func newCategoriesCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the preset categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []core.Kind{core.KindIncome, core.KindExpense}
			if kind != "" {
				k, err := core.ParseKind(kind)
				if err != nil {
					return err
				}
				kinds = []core.Kind{k}
			}
			w := cmd.OutOrStdout()
			for _, k := range kinds {
				fmt.Fprintf(w, "%s:\n", strings.ToUpper(k.String()[:1])+k.String()[1:])
				for _, c := range k.Categories() {
					fmt.Fprintf(w, "  %s\n", c)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", "", "income or expense (default: both)")
	return cmd
}

func newSeedCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add sample transactions to an empty ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withLedger(cmd.Context(), func(e *ledger.Engine) error {
				n, err := e.SeedSamples(cmd.Context())
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Ledger is not empty; no sample data added.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d sample transactions.\n", n)
				return nil
			})
		},
	}
}

func newExportCommand(env *Env) *cobra.Command {
	var output string
	var toSheets bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all transactions to CSV or Google Sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			return env.withLedger(ctx, func(e *ledger.Engine) error {
				txs, err := e.ListTransactions(ctx, 0)
				if err != nil {
					return err
				}
				if len(txs) == 0 {
					fmt.Fprintln(w, "No data to export.")
					return nil
				}

				if toSheets {
					return exportToSheets(ctx, env, w, txs)
				}
				if output == "-" {
					_, err := e.Export(ctx, w)
					return err
				}
				if output == "" {
					output = export.FileName(env.Now())
				}
				return exportToFile(ctx, e, w, output)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file to write, or - for stdout (default finance_export_YYYYMMDD.csv)")
	cmd.Flags().BoolVar(&toSheets, "sheets", false, "write to the configured Google spreadsheet instead of a file")
	return cmd
}

func exportToFile(ctx context.Context, e *ledger.Engine, w io.Writer, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()

	n, err := e.Export(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported %d transactions to %s\n", n, path)
	return nil
}

func exportToSheets(ctx context.Context, env *Env, w io.Writer, txs []core.Transaction) error {
	bcfg, err := env.backendConfig()
	if err != nil {
		return err
	}
	exporter, err := env.Factory.CreateSheetsExporter(ctx, bcfg)
	if err != nil {
		return err
	}
	ref, err := exporter.ExportTransactions(ctx, txs)
	if err != nil {
		return fmt.Errorf("export to sheets: %w", err)
	}
	if !bcfg.SheetsEnabled() {
		fmt.Fprintf(w, "Exported %d transactions to in-memory sheet %s (discarded on exit; set GOOGLE_SPREADSHEET_ID to keep them)\n", len(txs), ref)
		return nil
	}
	fmt.Fprintf(w, "Exported %d transactions to %s\n", len(txs), ref)
	return nil
}

func newChartCommand(env *Env) *cobra.Command {
	var dir, month, currency string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the dashboard charts as PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = env.Config.ChartDir
			}
			if month == "" {
				month = env.Now().Format(core.MonthLayout)
			}
			ctx := cmd.Context()
			return env.withLedger(ctx, func(e *ledger.Engine) error {
				cur, display, err := resolveCurrency(ctx, e, currency)
				if err != nil {
					return err
				}
				balance, err := e.ComputeBalance(ctx, cur)
				if err != nil {
					return err
				}
				breakdown, err := e.ComputeMonthlyBreakdown(ctx, month)
				if err != nil {
					return err
				}
				trend, err := e.Trend(ctx, cur)
				if err != nil {
					return err
				}

				paths, err := charts.RenderDashboard(ctx, dir, charts.Dashboard{
					Currency:  display,
					Balance:   balance,
					Breakdown: breakdown,
					Trend:     trend,
				}, env.Logger)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(paths) == 0 {
					fmt.Fprintln(w, "No data to chart.")
					return nil
				}
				for _, p := range paths {
					fmt.Fprintf(w, "Wrote %s\n", p)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default $CHART_DIR)")
	cmd.Flags().StringVar(&month, "month", "", "month for the category charts as YYYY-MM (default current month)")
	cmd.Flags().StringVar(&currency, "currency", "", "only count transactions in this currency (default: all)")
	return cmd
}

func newEventsCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print ledger change events from AMQP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bcfg, err := env.backendConfig()
			if err != nil {
				return err
			}
			client, err := env.Factory.NewConsumer(bcfg)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, stop := cli.ShutdownContext(cmd.Context(), env.Logger)
			defer stop()

			w := cmd.OutOrStdout()
			err = client.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
				_, err := fmt.Fprintln(w, formatEvent(msg))
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func newSyncSheetsCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-sheets",
		Short: "Mirror the ledger to Google Sheets on every AMQP ledger event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bcfg, err := env.backendConfig()
			if err != nil {
				return err
			}
			ctx, stop := cli.ShutdownContext(cmd.Context(), env.Logger)
			defer stop()

			exporter, err := env.Factory.CreateSheetsExporter(ctx, bcfg)
			if err != nil {
				return err
			}
			client, err := env.Factory.NewConsumer(bcfg)
			if err != nil {
				return err
			}
			defer client.Close()

			return env.withLedger(ctx, func(e *ledger.Engine) error {
				w := worker.NewSyncWorker(e, exporter, env.Logger)
				if err := w.StartupSync(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Sheet synced; waiting for ledger events")

				err := client.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
					return w.HandleLedgerEvent(ctx, msg)
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
}

func formatEvent(msg *amqp.LedgerEventMessage) string {
	line := fmt.Sprintf("%s  %-20s", msg.Timestamp.Format("2006-01-02 15:04:05"), msg.Type)
	if msg.TransactionID != 0 {
		line += fmt.Sprintf("  id=%d", msg.TransactionID)
	}
	if msg.Currency != "" {
		line += fmt.Sprintf("  currency=%s", msg.Currency)
	}
	return strings.TrimRight(line, " ")
}

// resolveCurrency returns the filter currency (empty for all) and the currency
// whose symbol labels the totals.
func resolveCurrency(ctx context.Context, e *ledger.Engine, code string) (core.Currency, core.Currency, error) {
	if code != "" {
		c, err := core.ParseCurrency(code)
		if err != nil {
			return "", "", fmt.Errorf("%w: %q", err, code)
		}
		return c, c, nil
	}
	def, err := e.DefaultCurrency(ctx)
	if err != nil {
		return "", "", err
	}
	return "", def, nil
}

func printTransactions(w io.Writer, txs []core.Transaction) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, "No transactions.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, strings.ToUpper(tx.Kind.String()), tx.Category,
			core.FormatAmount(tx.Amount, tx.Currency), tx.Description)
	}
	return tw.Flush()
}

func printReport(w io.Writer, r core.MonthlyReport, cur core.Currency) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "MONTHLY FINANCIAL REPORT - %s\n", r.Month)
	fmt.Fprintln(bw, strings.Repeat("=", 50))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "SUMMARY:")
	fmt.Fprintf(bw, "Total Income: %s\n", core.FormatAmount(r.IncomeTotal, cur))
	fmt.Fprintf(bw, "Total Expenses: %s\n", core.FormatAmount(r.ExpenseTotal, cur))
	fmt.Fprintf(bw, "Net Income: %s\n", core.FormatAmount(r.NetIncome, cur))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "INCOME BREAKDOWN:")
	for _, name := range ledger.SortedCategories(r.IncomeByCategory) {
		fmt.Fprintf(bw, "  %s: %s\n", name, core.FormatAmount(r.IncomeByCategory[name], cur))
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "EXPENSE BREAKDOWN:")
	for _, name := range ledger.SortedCategories(r.ExpenseByCategory) {
		fmt.Fprintf(bw, "  %s: %s\n", name, core.FormatAmount(r.ExpenseByCategory[name], cur))
	}
	if r.ExpenseTotal.IsPositive() {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "SAVINGS RATE: %s%%\n", r.SavingsRate.StringFixed(1))
	}
	return bw.Flush()
}

func currencyCodes() string {
	codes := make([]string, len(core.Currencies))
	for i, c := range core.Currencies {
		codes[i] = c.String()
	}
	return strings.Join(codes, ", ")
}
