package pipeline

import (
	"fmt"
	"strings"
)

// RenderHealth formats a health report for terminal display.
func RenderHealth(r HealthReport) string {
	var b strings.Builder

	b.WriteString("=== HEALTH CHECK ===\n")
	for _, t := range r.Tables {
		name := t.Database + "." + t.Table
		switch {
		case t.Error != "":
			fmt.Fprintf(&b, "  [%s] %s: ERROR %s\n", t.Role, name, t.Error)
		case t.Empty:
			fmt.Fprintf(&b, "  [%s] %s: EMPTY\n", t.Role, name)
		default:
			fmt.Fprintf(&b, "  [%s] %s: %d rows\n", t.Role, name, t.Rows)
		}
	}
	fmt.Fprintf(&b, "tables=%d empty=%d failed=%d\n",
		len(r.Tables), r.EmptyCount(), r.FailedCount())

	return b.String()
}

// RenderVerify formats a verification report for terminal display.
func RenderVerify(r VerifyReport) string {
	var b strings.Builder

	b.WriteString("=== DATA INTEGRITY VERIFICATION ===\n")
	for _, m := range r.Metrics {
		if m.Error != "" {
			fmt.Fprintf(&b, "  %s: ERROR %s\n", m.Name, m.Error)
			continue
		}
		fmt.Fprintf(&b, "  %s: %s\n", m.Name, m.Value)
	}

	return b.String()
}

// RenderPreview formats preview rows for terminal display, one visit per
// line.
func RenderPreview(records []Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== PREVIEW: %d records ===\n", len(records))
	for i, rec := range records {
		fmt.Fprintf(&b, "  [%d] HN=%s, VN=%s, Disease=%s, Age=%d\n",
			i+1, rec.HN, rec.VN, rec.DiseaseName, rec.Age)
	}

	return b.String()
}
