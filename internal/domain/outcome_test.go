package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTaskOutcomeConstructors(t *testing.T) {
	err := errors.New("status 503")

	success := Success("no deals found")
	if !success.IsSuccess() || success.IsRetry() || success.IsFailure() {
		t.Errorf("Success() status = %s", success.Status)
	}
	if success.Reason != "no deals found" || success.Err != nil {
		t.Errorf("Success() = %+v", success)
	}

	retry := Retry(err)
	if !retry.IsRetry() {
		t.Errorf("Retry() status = %s", retry.Status)
	}
	if retry.Reason != "status 503" || !errors.Is(retry.Err, err) {
		t.Errorf("Retry() = %+v", retry)
	}

	failure := Failure(err)
	if !failure.IsFailure() {
		t.Errorf("Failure() status = %s", failure.Status)
	}

	if Retry(nil).Reason != "" {
		t.Error("Retry(nil) should have an empty reason")
	}
}

func TestTaskOutcomeString(t *testing.T) {
	if got := Success("found 2 deals").String(); got != "success: found 2 deals" {
		t.Errorf("String() = %q", got)
	}
	if got := Failure(errors.New("boom")).String(); got != "failure: boom" {
		t.Errorf("String() = %q", got)
	}
}

func TestTaskOutcomeJSON(t *testing.T) {
	outcome := Retry(errors.New("status 503"))

	data, err := json.Marshal(outcome)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["status"] != "retry" {
		t.Errorf("status = %v, want retry", decoded["status"])
	}
	if _, ok := decoded["Err"]; ok {
		t.Error("Err should not be serialized")
	}
}
