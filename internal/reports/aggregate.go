package reports

import "HostelManagement/internal/fees"

// Aggregate computes report totals from fee records. Revenue counts paid
// amounts only; pending fines are fines on anything not yet paid.
func Aggregate(list []*fees.Fee) Totals {
	var t Totals
	t.TotalRecords = len(list)
	for _, f := range list {
		t.TotalFines += f.Fine
		switch f.Status {
		case fees.StatusPaid:
			t.TotalRevenue += f.Amount
			t.PaidRecords++
		case fees.StatusPending:
			t.PendingAmount += f.Amount
			t.PendingRecords++
		case fees.StatusOverdue:
			t.OverdueRecords++
		}
		if f.Status != fees.StatusPaid {
			t.PendingFines += f.Fine
		}
	}
	return t
}
