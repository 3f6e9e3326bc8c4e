package risk

import (
	"fmt"
	"strings"

	"github.com/pswandaru/auditguard/internal/audit"
)

// systemInstruction frames the model as an audit compliance specialist
// scoring under recognized internal audit standards.
const systemInstruction = "Anda adalah Spesialis Kepatuhan Audit Keuangan " +
	"(Financial Audit Compliance Specialist). Tugas Anda adalah menilai risiko " +
	"transaksi keuangan berdasarkan data yang diberikan. Berikan penilaian " +
	"objektif berdasarkan standar audit internal (COSO/ISA)."

// buildPrompt renders a transaction into the natural-language scoring
// request. The three reasoning rules (deviation from the historical average,
// high-risk language in free text, materiality exceedance) are delegated to
// the model, never computed here.
func buildPrompt(t audit.Transaction) string {
	var b strings.Builder

	b.WriteString("Analyze the following financial transaction for audit compliance risk.\n\n")
	b.WriteString("Transaction Data:\n")
	fmt.Fprintf(&b, "- Title: %s\n", t.Title)
	fmt.Fprintf(&b, "- Amount: IDR %d\n", t.Amount)
	fmt.Fprintf(&b, "- Category: %s\n", t.Category)
	fmt.Fprintf(&b, "- Description: %s\n", t.Description)
	fmt.Fprintf(&b, "- Historical Average for Category: IDR %d\n", t.HistoricalAverage)
	fmt.Fprintf(&b, "- Materiality Threshold: IDR %d\n", t.MaterialityThreshold)

	b.WriteString("\nContext & Rules:\n")
	b.WriteString("1. Compare Amount vs Historical Average. Significant deviation suggests anomaly.\n")
	b.WriteString("2. Analyze text (Title/Description) for high-risk keywords (e.g., vague descriptions, high-risk entertainment, unknown vendors).\n")
	b.WriteString("3. If Amount > Materiality Threshold, risk increases.\n")
	b.WriteString("4. Return a structured risk assessment.\n")

	return b.String()
}
