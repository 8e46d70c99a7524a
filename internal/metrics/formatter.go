package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type StatsFormatter struct {
	now func() time.Time
}

func NewStatsFormatter() *StatsFormatter {
	return &StatsFormatter{now: time.Now}
}

// FormatDispatchLines renders the in-place status shown after each dispatch.
func (sf *StatsFormatter) FormatDispatchLines(record *DispatchRecord, todayMetrics *DailyMetrics) []string {
	var lines []string
	if record.OK {
		lines = append(lines, fmt.Sprintf("✅ %s → %s (%s)", record.Keys, record.Command, record.Kind))
	} else {
		lines = append(lines, fmt.Sprintf("❌ %s → %s failed: %s", record.Keys, record.Command, record.Error))
	}

	if todayMetrics != nil && todayMetrics.DispatchCount > 0 {
		lines = append(lines, fmt.Sprintf("📈 Today: %s actions, %d failed",
			humanize.Comma(int64(todayMetrics.DispatchCount)), todayMetrics.FailureCount))
	}

	return lines
}

func (sf *StatsFormatter) FormatTotalStats(totalMetrics *TotalMetrics) string {
	if totalMetrics.TotalDispatches == 0 {
		return "📊 No usage statistics yet. Type your leader key followed by a mapping to get started!"
	}

	var b strings.Builder
	b.WriteString("📊 Total Statistics:\n")
	fmt.Fprintf(&b, "   Actions dispatched: %s\n", humanize.Comma(int64(totalMetrics.TotalDispatches)))
	fmt.Fprintf(&b, "   Failed launches: %s\n", humanize.Comma(int64(totalMetrics.TotalFailures)))
	fmt.Fprintf(&b, "   Active days: %d\n", totalMetrics.ActiveDays)
	fmt.Fprintf(&b, "   Last used: %s", humanize.RelTime(totalMetrics.LastDispatch, sf.now(), "ago", "from now"))

	if len(totalMetrics.TopSequences) > 0 {
		b.WriteString("\n   Top sequences:")
		for i, s := range totalMetrics.TopSequences {
			fmt.Fprintf(&b, "\n     %d. %s (%s)", i+1, s.Keys, humanize.Comma(int64(s.Count)))
		}
	}

	return b.String()
}

func (sf *StatsFormatter) FormatWeeklyStats(weeklyMetrics []*DailyMetrics) string {
	if len(weeklyMetrics) == 0 {
		return "📅 No weekly data available yet."
	}

	totalDispatches := 0
	totalFailures := 0
	activeDays := 0

	for _, day := range weeklyMetrics {
		if day.DispatchCount > 0 {
			activeDays++
			totalDispatches += day.DispatchCount
			totalFailures += day.FailureCount
		}
	}

	if activeDays == 0 {
		return "📅 No activity this week yet."
	}

	stats := "📅 This Week:\n"
	stats += fmt.Sprintf("   Active days: %d/%d\n", activeDays, len(weeklyMetrics))
	stats += fmt.Sprintf("   Actions dispatched: %s\n", humanize.Comma(int64(totalDispatches)))
	stats += fmt.Sprintf("   Failed launches: %d", totalFailures)

	return stats
}
