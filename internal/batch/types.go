package batch

// Operation names a single image transform carried out by a provider.
type Operation string

const (
	OpAnalyze       Operation = "analyze"
	OpCompress      Operation = "compress"
	OpConvert       Operation = "convert"
	OpExtractColors Operation = "extract_colors"
)

// Options is an opaque bag handed through to the provider. The engine only
// inspects "targetFormat", which convert requires.
type Options map[string]any

// TargetFormat returns the convert destination format, if present.
func (o Options) TargetFormat() (string, bool) {
	v, ok := o["targetFormat"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// WorkItem is one unit of batch input. Built once per source, never mutated.
type WorkItem struct {
	Source    string
	Operation Operation
	Options   Options
}

// Status tags an Outcome as settled successfully or not.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Outcome is the settled result of dispatching one WorkItem. Exactly one of
// Payload and Message is populated; build outcomes only through Succeeded
// and FailedWith so the exclusivity holds.
type Outcome struct {
	Source     string `json:"source"`
	Status     Status `json:"status"`
	Payload    any    `json:"payload,omitempty"`
	DurationMs uint64 `json:"duration_ms,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Succeeded builds a success outcome carrying the provider payload and the
// measured wall-clock duration.
func Succeeded(source string, payload any, durationMs uint64) Outcome {
	return Outcome{
		Source:     source,
		Status:     StatusSuccess,
		Payload:    payload,
		DurationMs: durationMs,
	}
}

// FailedWith builds a failure outcome. Failed attempts carry no duration.
func FailedWith(source, message string) Outcome {
	return Outcome{
		Source:  source,
		Status:  StatusFailure,
		Message: message,
	}
}

// OK reports whether the outcome settled successfully.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// Summary is the aggregate report over all outcomes of one batch run.
// Results holds one outcome per input source, in input order.
type Summary struct {
	TotalProcessed uint      `json:"total_processed"`
	Successful     uint      `json:"successful"`
	Failed         uint      `json:"failed"`
	Results        []Outcome `json:"results"`
	TotalTimeMs    uint64    `json:"total_time_ms"`
	AverageTimeMs  uint64    `json:"average_time_ms"`
	SuccessRate    uint      `json:"success_rate"`
}

// ProgressEvent reports one settled item. Completed increases by exactly 1
// per event over a run; the final event has Completed == Total.
type ProgressEvent struct {
	Completed  uint `json:"completed"`
	Total      uint `json:"total"`
	Percentage uint `json:"percentage"`
}

// ProgressFunc receives one event per settled item. It is always invoked
// from the run's collector goroutine, never concurrently with itself.
type ProgressFunc func(ProgressEvent)
