package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yoshii001/Content-Generator/internal/storage"
)

func TestAnalyzeDailyLogs(t *testing.T) {
	// Тестовая дата
	testDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	events := []storage.Event{
		{Timestamp: testDate.Add(2 * time.Hour), Provider: "huggingface", Success: true, OutputLen: 40, LatencyMS: 100},
		{Timestamp: testDate.Add(4 * time.Hour), Provider: "huggingface", Success: false, Error: "huggingface: status 503: loading", LatencyMS: 300},
		{Timestamp: testDate.Add(6 * time.Hour), Provider: "openai", Success: true, OutputLen: 10, LatencyMS: 200},
		// Событие в другой день (не должно учитываться)
		{Timestamp: testDate.AddDate(0, 0, 1), Provider: "openai", Success: true, LatencyMS: 9999},
		{Timestamp: testDate.Add(-time.Second), Provider: "openai", Success: true, LatencyMS: 9999},
	}

	stats := AnalyzeDailyLogs(events, testDate.Add(13*time.Hour))

	if stats.Date != "2024-01-15" {
		t.Errorf("Expected date '2024-01-15', got '%s'", stats.Date)
	}
	if stats.TotalRequests != 3 || stats.Succeeded != 2 || stats.Failed != 1 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if stats.AvgLatencyMS != 200 || stats.MaxLatencyMS != 300 {
		t.Errorf("unexpected latency: avg=%d max=%d", stats.AvgLatencyMS, stats.MaxLatencyMS)
	}
	if stats.OutputChars != 50 {
		t.Errorf("output chars = %d", stats.OutputChars)
	}
	hf := stats.ProviderStats["huggingface"]
	if hf.Requests != 2 || hf.Failures != 1 {
		t.Errorf("huggingface stats = %+v", hf)
	}
	if stats.FailureReasons["huggingface: status 503"] != 1 {
		t.Errorf("failure reasons = %v", stats.FailureReasons)
	}
}

func TestAnalyzeDailyLogs_Empty(t *testing.T) {
	stats := AnalyzeDailyLogs(nil, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if stats.TotalRequests != 0 || stats.AvgLatencyMS != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if !strings.Contains(stats.GenerateReportSummary(), "requests: 0") {
		t.Errorf("summary = %q", stats.GenerateReportSummary())
	}
}

func TestReportSummaryAndJSON(t *testing.T) {
	stats := AnalyzeDailyLogs([]storage.Event{
		{Timestamp: time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC), Provider: "openai", Success: false, Error: "timeout"},
	}, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	summary := stats.GenerateReportSummary()
	for _, want := range []string{"2024-01-15", "openai: 1 requests, 1 failures", "timeout: 1"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	js, err := stats.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	var back DailyStats
	if err := json.Unmarshal([]byte(js), &back); err != nil || back.Failed != 1 {
		t.Fatalf("json round trip: %v %+v", err, back)
	}
}
