package metrics

// Error handling module metrics
const (
	ErrorHandlingWrapsTotal = "error_handling_wraps_total"
	ErrorHandlingWrapMs     = "error_handling_wrap_ms"
)

// FulHash module metrics
const (
	FulHashOperationsTotalXXH3128 = "fulhash_operations_total_xxh3_128"
	FulHashOperationsTotalSHA256  = "fulhash_operations_total_sha256"
	FulHashHashStringTotal        = "fulhash_hash_string_total"
	FulHashBytesHashedTotal       = "fulhash_bytes_hashed_total"
	FulHashOperationMs            = "fulhash_operation_ms"
)

// Distance and normalization metrics
const (
	DistanceComputeTotal    = "distance_compute_total"
	DistanceComputeMs       = "distance_compute_ms"
	NormalizeApplyTotal     = "normalize_apply_total"
	NormalizeApplyMs        = "normalize_apply_ms"
	NormalizeNonMappable    = "normalize_non_mappable_total"
	MatrixCellsWrittenTotal = "matrix_cells_written_total"
	MatrixBuildMs           = "matrix_build_ms"
)

// Blocking metrics
const (
	BlockingFitMs          = "blocking_fit_ms"
	BlockingBlocksTotal    = "blocking_blocks_total"
	BlockingPairsEmitted   = "blocking_pairs_emitted_total"
	BlockingSkippedEmpty   = "blocking_skipped_empty_total"
)

// MinHash / LSH metrics
const (
	MinhashTrainMs         = "minhash_train_ms"
	MinhashSignatureBits   = "minhash_signature_bits"
	MinhashBandSize        = "minhash_band_size"
	MinhashCandidatesTotal = "minhash_candidates_total"
)

// Alignment metrics
const (
	AlignMatchedPairsTotal   = "align_matched_pairs_total"
	AlignDurationMs          = "align_duration_ms"
	AlignPipelineStagesTotal = "align_pipeline_stages_total"
)

// Iterative driver metrics
const (
	IterativePagesProcessedTotal = "iterative_pages_processed_total"
	IterativeComparisonsTotal    = "iterative_comparisons_total"
	IterativeDurationMs          = "iterative_duration_ms"
)

// NER process metrics
const (
	NERTokensProcessedTotal  = "ner_tokens_processed_total"
	NERRecognizedTotal       = "ner_recognized_total"
	NERFilteredTotal         = "ner_filtered_total"
	NERSourceQueryMs         = "ner_source_query_ms"
)

// Metric units
const (
	UnitCount   = "count"
	UnitMs      = "ms"
	UnitSeconds = "seconds"
	UnitBytes   = "bytes"
	UnitPercent = "percent"
)

// Standard tag keys
const (
	TagStatus    = "status"
	TagComponent = "component"
	TagOperation = "operation"
	TagCategory  = "category"
	TagVersion   = "version"
	TagSeverity  = "severity"
	TagLayer     = "layer"
	TagAlgorithm = "algorithm"
	TagErrorType = "error_type"
	TagPhase     = "phase"
	TagResult    = "result"
	TagReason    = "reason"
	TagBlocking  = "blocking_strategy"
	TagMetric    = "metric"
	TagSource    = "source"
)

// Standard tag values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusError   = "error"
)

// Standard result values
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Error types
const (
	ErrorTypeValidation = "validation"
	ErrorTypeIO         = "io"
	ErrorTypeTimeout    = "timeout"
	ErrorTypeOther      = "other"
)
