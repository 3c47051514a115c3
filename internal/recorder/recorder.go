package recorder

import "MarketCorrelator/internal/model"

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(run *model.RunSummary) error
	Close() error
}
