// Package feedback builds feedback records from a match result and posts
// them to an external form-collection endpoint.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// FailureMessage is shown to the user when a submission fails.
const FailureMessage = "Failed to submit feedback. Try again later."

// SubmissionError reports a failed POST. Status is zero when no response
// was received.
type SubmissionError struct {
	Status int
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("feedback submission failed: status %d", e.Status)
	}
	return fmt.Sprintf("feedback submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Config configures a Submitter.
type Config struct {
	URL     string
	Timeout time.Duration
	Fields  Fields
}

// Submitter posts records to the form service. Each call makes at most one
// request. After repeated failures the breaker opens and calls fail
// immediately until it half-opens again.
type Submitter struct {
	url     string
	fields  Fields
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[int]
}

// NewSubmitter returns a Submitter. A zero Timeout means 10 seconds.
func NewSubmitter(cfg Config) *Submitter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Submitter{
		url:    cfg.URL,
		fields: cfg.Fields,
		client: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
			Name:    "feedback",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// A caller that went away says nothing about the form service.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

// Submit sends rec once. Any failure is returned as *SubmissionError.
func (s *Submitter) Submit(ctx context.Context, rec Record) error {
	if s.url == "" {
		return &SubmissionError{Err: errors.New("no feedback URL configured")}
	}

	status, err := s.breaker.Execute(func() (int, error) {
		return s.post(ctx, rec)
	})
	if err == nil {
		return nil
	}

	var serr *SubmissionError
	if errors.As(err, &serr) {
		return serr
	}
	// Breaker rejections (open or half-open limit).
	return &SubmissionError{Status: status, Err: err}
}

func (s *Submitter) post(ctx context.Context, rec Record) (int, error) {
	body := Encode(rec, s.fields).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(body))
	if err != nil {
		return 0, &SubmissionError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()
	// The response body is not used; drain it so the connection is reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &SubmissionError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return resp.StatusCode, nil
}
