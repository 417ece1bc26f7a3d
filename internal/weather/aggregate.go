package weather

import "time"

// Summary is the aggregated view of one delivery cycle.
type Summary struct {
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt time.Time        `json:"finishedAt"`
	Total      int              `json:"total"`
	Sent       int              `json:"sent"`
	Failed     int              `json:"failed"`
	Skipped    int              `json:"skipped"`
	TopBadge   string           `json:"topBadge,omitempty"`
	Records    []DeliveryRecord `json:"records"`
}

// Summarize combines per-recipient results into a Summary.
// The most frequent badge among delivered notifications is reported as TopBadge.
func Summarize(started time.Time, results []Result) Summary {
	s := Summary{
		StartedAt: started.UTC(),
		Total:     len(results),
		Records:   make([]DeliveryRecord, 0, len(results)),
	}

	badgeCounts := make(map[string]int)
	var newestTS time.Time

	for _, r := range results {
		switch r.Record.Status {
		case StatusSent:
			s.Sent++
			if r.Record.Badge != "" {
				badgeCounts[r.Record.Badge]++
			}
		case StatusSkipped:
			s.Skipped++
		default:
			s.Failed++
		}

		if r.Record.Timestamp.After(newestTS) {
			newestTS = r.Record.Timestamp
		}
		s.Records = append(s.Records, r.Record)
	}

	// Pick majority badge; ties go to the badge seen first.
	bestCount := 0
	for _, r := range results {
		b := r.Record.Badge
		if c := badgeCounts[b]; c > bestCount {
			bestCount = c
			s.TopBadge = b
		}
	}

	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}
	s.FinishedAt = newestTS
	return s
}
