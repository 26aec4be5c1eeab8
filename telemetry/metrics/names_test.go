package metrics_test

import (
	"strings"
	"testing"

	"github.com/fulmenhq/nazgo/telemetry/metrics"
)

// TestErrorHandlingMetricNames ensures error handling metric names follow conventions.
func TestErrorHandlingMetricNames(t *testing.T) {
	tests := []struct {
		name     string
		metric   string
		wantUnit string
	}{
		{"wraps total", metrics.ErrorHandlingWrapsTotal, metrics.UnitCount},
		{"wrap latency", metrics.ErrorHandlingWrapMs, metrics.UnitMs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.metric, "error_handling_") {
				t.Errorf("metric %q should start with error_handling_ prefix", tt.metric)
			}
		})
	}
}

// TestFulHashMetricNames ensures FulHash metric names follow conventions.
func TestFulHashMetricNames(t *testing.T) {
	tests := []struct {
		name     string
		metric   string
		wantUnit string
	}{
		{"xxh3_128 operations", metrics.FulHashOperationsTotalXXH3128, metrics.UnitCount},
		{"sha256 operations", metrics.FulHashOperationsTotalSHA256, metrics.UnitCount},
		{"hash string total", metrics.FulHashHashStringTotal, metrics.UnitCount},
		{"bytes hashed", metrics.FulHashBytesHashedTotal, metrics.UnitBytes},
		{"operation latency", metrics.FulHashOperationMs, metrics.UnitMs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.metric, "fulhash_") {
				t.Errorf("metric %q should start with fulhash_ prefix", tt.metric)
			}
		})
	}
}

// TestDistanceAndMatrixMetricNames ensures distance/matrix metric names are snake_case and prefixed.
func TestDistanceAndMatrixMetricNames(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		prefix string
	}{
		{"distance compute total", metrics.DistanceComputeTotal, "distance_"},
		{"distance compute ms", metrics.DistanceComputeMs, "distance_"},
		{"normalize apply total", metrics.NormalizeApplyTotal, "normalize_"},
		{"normalize apply ms", metrics.NormalizeApplyMs, "normalize_"},
		{"normalize non-mappable", metrics.NormalizeNonMappable, "normalize_"},
		{"matrix cells written", metrics.MatrixCellsWrittenTotal, "matrix_"},
		{"matrix build ms", metrics.MatrixBuildMs, "matrix_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if strings.ToLower(tt.metric) != tt.metric {
				t.Errorf("metric %q should be lowercase snake_case", tt.metric)
			}
			if !strings.HasPrefix(tt.metric, tt.prefix) {
				t.Errorf("metric %q should start with %q prefix", tt.metric, tt.prefix)
			}
		})
	}
}

// TestBlockingMetricNames ensures blocking metric names are snake_case and prefixed.
func TestBlockingMetricNames(t *testing.T) {
	names := []string{
		metrics.BlockingFitMs,
		metrics.BlockingBlocksTotal,
		metrics.BlockingPairsEmitted,
		metrics.BlockingSkippedEmpty,
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "blocking_") {
			t.Errorf("metric %q should start with blocking_ prefix", name)
		}
	}
}

// TestMinhashMetricNames ensures minhash metric names are snake_case and prefixed.
func TestMinhashMetricNames(t *testing.T) {
	names := []string{
		metrics.MinhashTrainMs,
		metrics.MinhashSignatureBits,
		metrics.MinhashBandSize,
		metrics.MinhashCandidatesTotal,
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "minhash_") {
			t.Errorf("metric %q should start with minhash_ prefix", name)
		}
	}
}

// TestAlignAndIterativeMetricNames ensures align/iterative metric names are snake_case and prefixed.
func TestAlignAndIterativeMetricNames(t *testing.T) {
	tests := []struct {
		metric string
		prefix string
	}{
		{metrics.AlignMatchedPairsTotal, "align_"},
		{metrics.AlignDurationMs, "align_"},
		{metrics.AlignPipelineStagesTotal, "align_"},
		{metrics.IterativePagesProcessedTotal, "iterative_"},
		{metrics.IterativeComparisonsTotal, "iterative_"},
		{metrics.IterativeDurationMs, "iterative_"},
	}
	for _, tt := range tests {
		if !strings.HasPrefix(tt.metric, tt.prefix) {
			t.Errorf("metric %q should start with %q prefix", tt.metric, tt.prefix)
		}
	}
}

// TestNERMetricNames ensures NER metric names are snake_case and prefixed.
func TestNERMetricNames(t *testing.T) {
	names := []string{
		metrics.NERTokensProcessedTotal,
		metrics.NERRecognizedTotal,
		metrics.NERFilteredTotal,
		metrics.NERSourceQueryMs,
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "ner_") {
			t.Errorf("metric %q should start with ner_ prefix", name)
		}
	}
}

// TestLabelConstants verifies label key constants.
func TestLabelConstants(t *testing.T) {
	labels := map[string]string{
		"status":    metrics.TagStatus,
		"component": metrics.TagComponent,
		"operation": metrics.TagOperation,
		"phase":     metrics.TagPhase,
		"result":    metrics.TagResult,
		"error_type": metrics.TagErrorType,
		"reason":    metrics.TagReason,
		"algorithm": metrics.TagAlgorithm,
	}

	for expected, actual := range labels {
		if actual != expected {
			t.Errorf("label constant mismatch: expected %q, got %q", expected, actual)
		}
	}
}

// TestResultValues verifies result enumeration values.
func TestResultValues(t *testing.T) {
	if metrics.ResultSuccess != "success" {
		t.Errorf("ResultSuccess should be %q, got %q", "success", metrics.ResultSuccess)
	}
	if metrics.ResultError != "error" {
		t.Errorf("ResultError should be %q, got %q", "error", metrics.ResultError)
	}
}

// TestErrorTypeValues verifies error type enumeration values.
func TestErrorTypeValues(t *testing.T) {
	errorTypes := map[string]string{
		"validation": metrics.ErrorTypeValidation,
		"io":         metrics.ErrorTypeIO,
		"timeout":    metrics.ErrorTypeTimeout,
		"other":      metrics.ErrorTypeOther,
	}

	for expected, actual := range errorTypes {
		if actual != expected {
			t.Errorf("error type mismatch: expected %q, got %q", expected, actual)
		}
	}
}
