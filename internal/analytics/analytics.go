package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yoshii001/Content-Generator/internal/storage"
)

// DailyStats содержит статистику релея за день
type DailyStats struct {
	Date           string                   `json:"date"`
	TotalRequests  int                      `json:"total_requests"`
	Succeeded      int                      `json:"succeeded"`
	Failed         int                      `json:"failed"`
	AvgLatencyMS   int64                    `json:"avg_latency_ms"`
	MaxLatencyMS   int64                    `json:"max_latency_ms"`
	OutputChars    int                      `json:"output_chars"`
	ProviderStats  map[string]ProviderStats `json:"provider_stats"`
	FailureReasons map[string]int           `json:"failure_reasons"`
}

// ProviderStats содержит статистику по одному провайдеру
type ProviderStats struct {
	Provider  string `json:"provider"`
	Requests  int    `json:"requests"`
	Failures  int    `json:"failures"`
	LatencyMS int64  `json:"latency_ms"`
}

// AnalyzeDailyLogs анализирует события за указанную дату
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	// Нормализуем дату до начала дня
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:           startOfDay.Format("2006-01-02"),
		ProviderStats:  make(map[string]ProviderStats),
		FailureReasons: make(map[string]int),
	}

	var totalLatency int64
	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}

		stats.TotalRequests++
		totalLatency += event.LatencyMS
		if event.LatencyMS > stats.MaxLatencyMS {
			stats.MaxLatencyMS = event.LatencyMS
		}

		ps := stats.ProviderStats[event.Provider]
		ps.Provider = event.Provider
		ps.Requests++
		ps.LatencyMS += event.LatencyMS

		if event.Success {
			stats.Succeeded++
			stats.OutputChars += event.OutputLen
		} else {
			stats.Failed++
			ps.Failures++
			stats.FailureReasons[failureReason(event.Error)]++
		}
		stats.ProviderStats[event.Provider] = ps
	}

	if stats.TotalRequests > 0 {
		stats.AvgLatencyMS = totalLatency / int64(stats.TotalRequests)
	}
	return stats
}

// failureReason сворачивает текст ошибки до первого сегмента, чтобы группировать похожие ошибки
func failureReason(errText string) string {
	if errText == "" {
		return "unknown"
	}
	if i := strings.Index(errText, ":"); i > 0 {
		rest := strings.TrimSpace(errText[i+1:])
		if j := strings.Index(rest, ":"); j > 0 {
			return errText[:i] + ": " + rest[:j]
		}
	}
	return errText
}

// GenerateReportSummary создает текстовое резюме для лога
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Relay usage for %s:\n", ds.Date)
	fmt.Fprintf(&b, "- requests: %d (ok %d, failed %d)\n", ds.TotalRequests, ds.Succeeded, ds.Failed)
	fmt.Fprintf(&b, "- latency: avg %dms, max %dms\n", ds.AvgLatencyMS, ds.MaxLatencyMS)
	fmt.Fprintf(&b, "- generated characters: %d\n", ds.OutputChars)

	if len(ds.ProviderStats) > 0 {
		providers := make([]string, 0, len(ds.ProviderStats))
		for p := range ds.ProviderStats {
			providers = append(providers, p)
		}
		sort.Strings(providers)
		b.WriteString("Providers:\n")
		for _, p := range providers {
			ps := ds.ProviderStats[p]
			fmt.Fprintf(&b, "- %s: %d requests, %d failures\n", p, ps.Requests, ps.Failures)
		}
	}

	if len(ds.FailureReasons) > 0 {
		reasons := make([]string, 0, len(ds.FailureReasons))
		for r := range ds.FailureReasons {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		b.WriteString("Failures:\n")
		for _, r := range reasons {
			fmt.Fprintf(&b, "- %s: %d\n", r, ds.FailureReasons[r])
		}
	}
	return b.String()
}

// ToJSON сериализует статистику в JSON для детального анализа
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
