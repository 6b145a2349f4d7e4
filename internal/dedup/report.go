package dedup

import "strconv"

// Report renders duplicates as tabular rows for user-facing export. The
// first row is the header. Informational only.
func Report(dups []Duplicate) [][]string {
	rows := make([][]string, 0, len(dups)+1)
	rows = append(rows, []string{"name", "phone", "email", "company", "reason", "matched_key", "existing_lead_id"})
	for _, d := range dups {
		existing := ""
		if d.ExistingLeadID != 0 {
			existing = strconv.Itoa(d.ExistingLeadID)
		}
		rows = append(rows, []string{
			d.Lead.Name,
			d.Lead.Phone,
			d.Lead.Email,
			d.Lead.Company,
			d.Reason,
			d.MatchedKey,
			existing,
		})
	}
	return rows
}
