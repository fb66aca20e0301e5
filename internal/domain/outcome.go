package domain

import "fmt"

// OutcomeStatus classifies how a reconciliation run ended
type OutcomeStatus string

const (
	// OutcomeSuccess means the run completed, with or without matches
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeRetry means a transient remote failure; the scheduler should re-run with backoff
	OutcomeRetry OutcomeStatus = "retry"
	// OutcomeFailure means an unexpected error; the scheduler must not retry
	OutcomeFailure OutcomeStatus = "failure"
)

// TaskOutcome is the single result type of a reconciliation run
type TaskOutcome struct {
	Status     OutcomeStatus `json:"status"`
	Reason     string        `json:"reason"`
	Err        error         `json:"-"`
	TotalDeals int           `json:"totalDeals"`
	Notified   bool          `json:"notified"`
}

// Success builds a successful outcome
func Success(reason string) TaskOutcome {
	return TaskOutcome{Status: OutcomeSuccess, Reason: reason}
}

// Retry builds a retryable outcome
func Retry(err error) TaskOutcome {
	return TaskOutcome{Status: OutcomeRetry, Reason: errorReason(err), Err: err}
}

// Failure builds a terminal outcome
func Failure(err error) TaskOutcome {
	return TaskOutcome{Status: OutcomeFailure, Reason: errorReason(err), Err: err}
}

func (o TaskOutcome) IsSuccess() bool { return o.Status == OutcomeSuccess }
func (o TaskOutcome) IsRetry() bool   { return o.Status == OutcomeRetry }
func (o TaskOutcome) IsFailure() bool { return o.Status == OutcomeFailure }

func (o TaskOutcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Status, o.Err)
	}
	return fmt.Sprintf("%s: %s", o.Status, o.Reason)
}

func errorReason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
