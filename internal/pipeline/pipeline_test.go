package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/nao1215/leadscan/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, report *model.ScrapeReport) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, report *model.ScrapeReport) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, report)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestReport() *model.ScrapeReport {
	return model.NewScrapeReport("run-1", "https://example.com")
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))

		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	if p.StepCount() != 3 {
		t.Errorf("expected 3 steps, got %d", p.StepCount())
	}
	if got := p.StepNames(); !slices.Equal(got, []string{"first", "second", "third"}) {
		t.Errorf("StepNames() = %v", got)
	}
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		executionOrder := make([]string, 0)
		record := func(name string) func(context.Context, *model.ScrapeReport) error {
			return func(_ context.Context, _ *model.ScrapeReport) error {
				executionOrder = append(executionOrder, name)
				return nil
			}
		}

		p := New(WithLogger(discardLogger()))
		p.AddStep(&mockStep{name: "step-1", doFunc: record("step-1")})
		p.AddStep(&mockStep{name: "step-2", doFunc: record("step-2")})

		if err := p.Execute(context.Background(), newTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(executionOrder, []string{"step-1", "step-2"}) {
			t.Errorf("wrong execution order: %v", executionOrder)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		second := &mockStep{name: "should-not-run"}

		p := New(WithLogger(discardLogger()))
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.ScrapeReport) error {
				return expectedErr
			},
		})
		p.AddStep(second)

		err := p.Execute(context.Background(), newTestReport())
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if second.callCount != 0 {
			t.Error("second step should not have been called")
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		second := &mockStep{name: "should-run"}

		p := New(WithContinueOnError(true), WithLogger(discardLogger()))
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.ScrapeReport) error {
				return expectedErr
			},
		})
		p.AddStep(second)

		err := p.Execute(context.Background(), newTestReport())
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected the first error to be reported, got %v", err)
		}
		if second.callCount != 1 {
			t.Error("second step should have been called")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "should-not-run"}
		p := New(WithLogger(discardLogger()))
		p.AddStep(step)

		err := p.Execute(ctx, newTestReport())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not have been called")
		}
	})

	t.Run("steps share the report", func(t *testing.T) {
		t.Parallel()

		p := New(WithLogger(discardLogger()))
		p.AddStep(&mockStep{
			name: "writer",
			doFunc: func(_ context.Context, r *model.ScrapeReport) error {
				r.Domain = "example.com"
				return nil
			},
		})
		var seen string
		p.AddStep(&mockStep{
			name: "reader",
			doFunc: func(_ context.Context, r *model.ScrapeReport) error {
				seen = r.Domain
				return nil
			},
		})

		if err := p.Execute(context.Background(), newTestReport()); err != nil {
			t.Fatal(err)
		}
		if seen != "example.com" {
			t.Errorf("reader saw %q", seen)
		}
	})
}

func TestScrapeError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := error(&ScrapeError{URL: "https://example.com", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("ScrapeError must unwrap to its cause")
	}
	var se *ScrapeError
	if !errors.As(err, &se) || se.URL != "https://example.com" {
		t.Errorf("errors.As failed: %v", err)
	}
	if got := err.Error(); got != "failed to scrape https://example.com: boom" {
		t.Errorf("Error() = %q", got)
	}
}
