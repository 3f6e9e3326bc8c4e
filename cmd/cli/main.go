package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pswandaru/auditguard/internal/audit"
	"github.com/pswandaru/auditguard/internal/logger"
	"github.com/pswandaru/auditguard/internal/report"
	"github.com/pswandaru/auditguard/internal/risk"
	"github.com/pswandaru/auditguard/internal/seed"
	"github.com/pswandaru/auditguard/internal/store"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		runList(log)
	case "inspect":
		runInspect(log)
	case "assess":
		runAssess(log)
	case "decide":
		runDecide(log)
	case "export":
		runExport(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("AuditGuard CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  list      List the seeded transactions")
	fmt.Println("  inspect   Show one transaction in detail")
	fmt.Println("  assess    Run a one-shot Gemini risk assessment on a transaction")
	fmt.Println("  decide    Record an audit decision on a transaction")
	fmt.Println("  export    Write the audit report to an XLSX or PDF file")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// seededStore builds the same session working set the API server starts
// with. The CLI is one-shot, so each invocation starts fresh.
func seededStore() *store.Store {
	st := store.New()
	st.Seed(seed.Transactions())
	return st
}

func runList(log zerolog.Logger) {
	st := seededStore()

	sum := st.Summarize()
	fmt.Printf("%-10s %-42s %-22s %15s  %-8s %s\n", "ID", "TITLE", "CATEGORY", "AMOUNT (IDR)", "STATUS", "RISK")
	for _, t := range st.All() {
		level := "-"
		if t.Assessment != nil {
			level = string(t.Assessment.Level)
		}
		fmt.Printf("%-10s %-42s %-22s %15d  %-8s %s\n",
			t.ID, truncate(t.Title, 40), t.Category, t.Amount, t.Status, level)
	}
	fmt.Printf("\n%d transactions, %d pending, total volume IDR %d\n",
		st.Len(), sum.Pending, sum.TotalAmount)
}

func runInspect(log zerolog.Logger) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	id := fs.String("id", "", "Transaction ID to inspect")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}

	st := seededStore()
	tx, ok := st.Get(*id)
	if !ok {
		log.Fatal().Str("transaction_id", *id).Msg("Transaction not found")
	}

	printTransaction(tx)
}

func runAssess(log zerolog.Logger) {
	fs := flag.NewFlagSet("assess", flag.ExitOnError)
	id := fs.String("id", "", "Transaction ID to assess")
	apiKey := fs.String("api-key", os.Getenv("GEMINI_API_KEY"), "Gemini API key (or set GEMINI_API_KEY env)")
	model := fs.String("model", risk.DefaultModel, "Gemini model for risk scoring")
	timeout := fs.Duration("timeout", 90*time.Second, "Assessment timeout")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}

	st := seededStore()
	tx, ok := st.Get(*id)
	if !ok {
		log.Fatal().Str("transaction_id", *id).Msg("Transaction not found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("transaction_id", tx.ID).Str("model", *model).Msg("Requesting risk assessment")

	analyzer := risk.NewGeminiAnalyzer(*apiKey, risk.WithModel(*model))
	assessment, err := analyzer.Assess(ctx, tx)
	if err != nil {
		log.Fatal().Err(err).Msg("Assessment failed")
	}

	st.Replace(tx.WithAssessment(assessment))
	merged, _ := st.Get(tx.ID)
	printTransaction(merged)
}

func runDecide(log zerolog.Logger) {
	fs := flag.NewFlagSet("decide", flag.ExitOnError)
	id := fs.String("id", "", "Transaction ID to decide")
	decision := fs.String("decision", "", "Audit decision: APPROVED or REJECTED")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}
	if *decision == "" {
		log.Fatal().Msg("Error: --decision is required")
	}

	st := seededStore()
	decided, _, err := st.Decide(*id, audit.Status(strings.ToUpper(*decision)))
	if err != nil {
		log.Fatal().Err(err).Str("transaction_id", *id).Msg("Failed to record decision")
	}

	printTransaction(decided)
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "xlsx", "Report format: xlsx or pdf")
	out := fs.String("out", "", "Output file (defaults to audit.<format>)")
	fs.Parse(os.Args[2:])

	st := seededStore()

	var (
		data []byte
		err  error
	)
	switch *format {
	case "xlsx":
		data, err = report.BuildXLSX(st.Summarize(), st.All(), time.Now())
	case "pdf":
		data, err = report.BuildPDF(st.Summarize(), st.All(), time.Now())
	default:
		log.Fatal().Str("format", *format).Msg("Unknown format")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build report")
	}

	path := *out
	if path == "" {
		path = "audit." + *format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	fmt.Printf("Wrote %s (%d bytes)\n", path, len(data))
}

func printTransaction(t audit.Transaction) {
	fmt.Println("\n=== Transaction ===")
	fmt.Printf("ID:            %s\n", t.ID)
	fmt.Printf("ERP Reference: %s\n", t.ExternalRef)
	fmt.Printf("Title:         %s\n", t.Title)
	fmt.Printf("Date:          %s\n", t.Date)
	fmt.Printf("Category:      %s\n", t.Category)
	fmt.Printf("Amount:        IDR %d\n", t.Amount)
	fmt.Printf("Hist. Average: IDR %d\n", t.HistoricalAverage)
	fmt.Printf("Materiality:   IDR %d (material: %v)\n", t.MaterialityThreshold, t.Material())
	fmt.Printf("Status:        %s\n", t.Status)
	fmt.Printf("Description:   %s\n", t.Description)

	if t.Assessment == nil {
		fmt.Println("\nNo risk assessment generated yet.")
		return
	}

	a := t.Assessment
	fmt.Println("\n=== Risk Assessment ===")
	fmt.Printf("Score:    %.0f/100\n", a.Score)
	fmt.Printf("Level:    %s\n", a.Level)
	fmt.Printf("Anomaly:  %v\n", a.AnomalyFlag)
	fmt.Printf("Summary:  %s\n", a.Summary)
	if len(a.ComplianceConcerns) > 0 {
		fmt.Printf("Concerns: %s\n", strings.Join(a.ComplianceConcerns, ", "))
	}
	if !a.GeneratedAt.IsZero() {
		fmt.Printf("At:       %s\n", a.GeneratedAt.Format(time.RFC3339))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
