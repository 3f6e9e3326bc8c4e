// Package seed provides the mock working set loaded at session start. In a
// real deployment these records would come from an upstream ERP ingestion
// process; here they are fixed demo data.
package seed

import (
	"cloud.google.com/go/civil"

	"github.com/pswandaru/auditguard/internal/audit"
)

// Transactions returns the seed working set. Every record starts PENDING
// with no assessment. The Entertainment entry is a deliberate outlier (10x
// its historical average and far above materiality) so a demo assessment
// has something to flag.
func Transactions() []audit.Transaction {
	return []audit.Transaction{
		{
			ID:                   "TXN-001",
			ExternalRef:          "e7a1c9f2-3b54-4d10-9c8e-11a2b3c4d5e6",
			Title:                "Client Entertainment - Q3 Closing",
			Description:          "Entertainment expenses for prospective client representatives, venue and catering, no itemized receipts attached.",
			Amount:               50_000_000,
			Category:             "Entertainment",
			Date:                 civil.Date{Year: 2025, Month: 9, Day: 12},
			HistoricalAverage:    5_000_000,
			MaterialityThreshold: 10_000_000,
			Status:               audit.StatusPending,
		},
		{
			ID:                   "TXN-002",
			ExternalRef:          "0b6f2d84-91ce-47a3-8f5d-22b3c4d5e6f7",
			Title:                "Office Supplies Restock",
			Description:          "Monthly stationery and printer consumables order from the approved vendor catalogue.",
			Amount:               3_250_000,
			Category:             "Office Supplies",
			Date:                 civil.Date{Year: 2025, Month: 9, Day: 15},
			HistoricalAverage:    3_000_000,
			MaterialityThreshold: 10_000_000,
			Status:               audit.StatusPending,
		},
		{
			ID:                   "TXN-003",
			ExternalRef:          "5c8e1a37-64bf-4092-b1d6-33c4d5e6f7a8",
			Title:                "Legal Retainer - September",
			Description:          "Monthly retainer fee for external counsel per master services agreement LGL-2023-014.",
			Amount:               25_000_000,
			Category:             "Professional Services",
			Date:                 civil.Date{Year: 2025, Month: 9, Day: 1},
			HistoricalAverage:    25_000_000,
			MaterialityThreshold: 10_000_000,
			Status:               audit.StatusPending,
		},
		{
			ID:                   "TXN-004",
			ExternalRef:          "9d2b7e50-1af8-4c6d-a3e9-44d5e6f7a8b9",
			Title:                "Consulting Fee - Vendor Onboarding",
			Description:          "One-time advisory fee paid to newly registered vendor, contract reference pending.",
			Amount:               18_500_000,
			Category:             "Professional Services",
			Date:                 civil.Date{Year: 2025, Month: 9, Day: 18},
			HistoricalAverage:    25_000_000,
			MaterialityThreshold: 10_000_000,
			Status:               audit.StatusPending,
		},
		{
			ID:                   "TXN-005",
			ExternalRef:          "3f4a8c61-b2d9-4e07-95f1-55e6f7a8b9c0",
			Title:                "Team Travel - Surabaya Branch Audit",
			Description:          "Flights and accommodation for three internal auditors, field work week 38.",
			Amount:               12_400_000,
			Category:             "Travel",
			Date:                 civil.Date{Year: 2025, Month: 9, Day: 20},
			HistoricalAverage:    11_000_000,
			MaterialityThreshold: 15_000_000,
			Status:               audit.StatusPending,
		},
		{
			ID:                   "TXN-006",
			ExternalRef:          "7a9c3e85-d410-4f2b-86a7-66f7a8b9c0d1",
			Title:                "Digital Campaign - Product Launch",
			Description:          "Social media advertising spend for the October product launch, PO MKT-2025-091.",
			Amount:               40_000_000,
			Category:             "Marketing",
			Date:                 civil.Date{Year: 2025, Month: 9, Day: 22},
			HistoricalAverage:    35_000_000,
			MaterialityThreshold: 50_000_000,
			Status:               audit.StatusPending,
		},
		{
			ID:                   "TXN-007",
			ExternalRef:          "1e5d9b72-c863-4a19-b4c8-77a8b9c0d1e2",
			Title:                "Generator Maintenance - HQ",
			Description:          "Scheduled quarterly maintenance of backup generators, service report attached.",
			Amount:               7_800_000,
			Category:             "Maintenance",
			Date:                 civil.Date{Year: 2025, Month: 9, Day: 25},
			HistoricalAverage:    8_000_000,
			MaterialityThreshold: 10_000_000,
			Status:               audit.StatusPending,
		},
		{
			ID:                   "TXN-008",
			ExternalRef:          "b4f6d8a0-27e1-4935-9d0b-88b9c0d1e2f3",
			Title:                "Miscellaneous Vendor Payment",
			Description:          "Payment to CV Sumber Rejeki, description field left blank in the ERP entry.",
			Amount:               9_900_000,
			Category:             "Miscellaneous",
			Date:                 civil.Date{Year: 2025, Month: 9, Day: 27},
			HistoricalAverage:    2_000_000,
			MaterialityThreshold: 10_000_000,
			Status:               audit.StatusPending,
		},
	}
}
