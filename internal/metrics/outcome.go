package metrics

import (
	"github.com/fpang/ai-creative-studio/internal/studio"
)

// ResultSuccess is the Result dimension for a successful generation. Failed
// generations use the error kind.
const ResultSuccess = "success"

// RecordOutcome emits one EMF document for a settled submission.
func RecordOutcome(out *studio.Outcome) {
	result := ResultSuccess
	if out.Err != nil {
		result = string(out.Kind())
	}

	r := New(Namespace).
		Dimension("Mode", string(out.Mode)).
		Dimension("Result", result).
		Duration("GenerationMs", out.Duration).
		Count("GenerationCount").
		Property("generationId", out.ID)
	if out.Mode.IsVideo() {
		r.Metric("PollCount", float64(out.Polls), UnitCount)
	}
	if out.Result != nil {
		r.Metric("OutputBytes", float64(len(out.Result.Data)), UnitBytes)
	}
	r.Flush()
}
