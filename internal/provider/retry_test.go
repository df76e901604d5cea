package provider

import (
	"context"
	"errors"
	"testing"
	"time"
)

// flakyClient fails with errs in order, then succeeds.
type flakyClient struct {
	errs  []error
	calls int
}

func (f *flakyClient) Complete(_ context.Context, _ *CompletionRequest) (string, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return "", f.errs[f.calls-1]
	}
	return "ok", nil
}

func (f *flakyClient) Name() string         { return "flaky" }
func (f *flakyClient) DefaultModel() string { return "m" }

func fastRetryer() *Retryer {
	return &Retryer{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func TestRetryRecoversFromTransportErrors(t *testing.T) {
	c := &flakyClient{errs: []error{
		&TransportError{Err: errors.New("connection reset")},
		&TransportError{Err: errors.New("timeout")},
	}}

	text, err := fastRetryer().Complete(context.Background(), c, &CompletionRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "ok" || c.calls != 3 {
		t.Errorf("text = %q, calls = %d", text, c.calls)
	}
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	transport := &TransportError{Err: errors.New("down")}
	c := &flakyClient{errs: []error{transport, transport, transport, transport}}

	_, err := fastRetryer().Complete(context.Background(), c, &CompletionRequest{})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if c.calls != 3 {
		t.Errorf("calls = %d, want 3", c.calls)
	}
}

func TestNoRetryForAuthOrClientErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"auth", &AuthError{Reason: "missing key"}},
		{"api 400", &APIError{StatusCode: 400}},
		{"parse", &ParseError{Reason: "empty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &flakyClient{errs: []error{tt.err}}
			_, err := fastRetryer().Complete(context.Background(), c, &CompletionRequest{})
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if c.calls != 1 {
				t.Errorf("calls = %d, want 1", c.calls)
			}
		})
	}
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &flakyClient{errs: []error{&TransportError{Err: errors.New("down")}}}
	r := &Retryer{MaxAttempts: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}

	_, err := r.Complete(ctx, c, &CompletionRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if c.calls != 1 {
		t.Errorf("calls = %d, want 1", c.calls)
	}
}

func TestDelayGrowsAndCaps(t *testing.T) {
	r := &Retryer{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond}

	within := func(d, target time.Duration) bool {
		lo := target - target*jitterPercent/100
		hi := target + target*jitterPercent/100
		return d >= lo && d <= hi
	}

	if d := r.delay(0); !within(d, 100*time.Millisecond) {
		t.Errorf("delay(0) = %v", d)
	}
	if d := r.delay(1); !within(d, 200*time.Millisecond) {
		t.Errorf("delay(1) = %v", d)
	}
	// Capped at MaxDelay (plus jitter).
	if d := r.delay(5); !within(d, 300*time.Millisecond) {
		t.Errorf("delay(5) = %v", d)
	}
}
