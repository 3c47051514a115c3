package model

import "time"

// RunSummary is the outcome of one pipeline run, shared by the recorder and the notifier.
type RunSummary struct {
	ID        string
	StartedAt time.Time
	Tickers   []string
	Start     string
	End       string // empty means "today"
	Rows      int
	Dropped   []string
	Outcome   string // OutcomeOK or the reason the run stopped early
	Pairs     []Pair
	Files     []string
}

// OutcomeOK marks a run that reached the end of the pipeline.
const OutcomeOK = "ok"
