package entity

import "time"

// savingsWindowDays is the rolling retention window for daily records.
// Lifetime totals are kept regardless.
const savingsWindowDays = 30

// SavingsRecord aggregates freeze activity for one calendar day.
type SavingsRecord struct {
	Date             string `json:"date"` // YYYY-MM-DD
	TabsFrozen       int    `json:"tabsFrozen"`
	EstimatedSavedMB int    `json:"estimatedSavedMB"`
}

/// SavingsHistory is the append-only savings aggregate: a rolling window of
// daily records plus running lifetime totals. Solely mutated by the freeze
// completion path.
type SavingsHistory struct {
	Records         []SavingsRecord `json:"records"`
	TotalSavedMB    int             `json:"totalSavedMB"`
	TotalTabsFrozen int             `json:"totalTabsFrozen"`
}

// Record merges a freeze event into the day's record, trims records older
// than the retention window, and updates lifetime totals.
func (h *SavingsHistory) Record(tabCount, savedMB int, now time.Time) {
	today := now.Format("2006-01-02")

	merged := false
	for i := range h.Records {
		if h.Records[i].Date == today {
			h.Records[i].TabsFrozen += tabCount
			h.Records[i].EstimatedSavedMB += savedMB
			merged = true
			break
		}
	}
	if !merged {
		h.Records = append(h.Records, SavingsRecord{
			Date:             today,
			TabsFrozen:       tabCount,
			EstimatedSavedMB: savedMB,
		})
	}

	cutoff := now.AddDate(0, 0, -savingsWindowDays).Format("2006-01-02")
	kept := h.Records[:0]
	for _, r := range h.Records {
		if r.Date >= cutoff {
			kept = append(kept, r)
		}
	}
	h.Records = kept

	h.TotalSavedMB += savedMB
	h.TotalTabsFrozen += tabCount
}

// Recent sums the records of the last n days.
func (h *SavingsHistory) Recent(days int, now time.Time) (savedMB, tabsFrozen int) {
	cutoff := now.AddDate(0, 0, -days).Format("2006-01-02")
	for _, r := range h.Records {
		if r.Date >= cutoff {
			savedMB += r.EstimatedSavedMB
			tabsFrozen += r.TabsFrozen
		}
	}
	return savedMB, tabsFrozen
}
