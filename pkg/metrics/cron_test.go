package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsExportsRunsAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	job := "test-job"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)
	metrics.IncFailure(job)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := runsValue(mfs, job, "success"); err != nil {
		t.Fatalf("fetch success runs: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := runsValue(mfs, job, "failure"); err != nil {
		t.Fatalf("fetch failure runs: %v", err)
	} else if got != 2 {
		t.Fatalf("expected failure=2, got %f", got)
	}

	if got, err := durationSum(mfs, job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCronJobMetricsDisabledWithoutRegisterer(t *testing.T) {
	metrics := NewCronJobMetrics(nil)
	// Must not panic.
	metrics.ObserveDuration("job", time.Second)
	metrics.IncSuccess("job")
	metrics.IncFailure("job")
}

func runsValue(mfs []*dto.MetricFamily, job, status string) (float64, error) {
	mf := findMetricFamily(mfs, "fitcoach_cron_job_runs_total")
	if mf == nil {
		return 0, fmt.Errorf("runs metric not found")
	}
	for _, metric := range mf.GetMetric() {
		if hasLabel(metric.GetLabel(), "job", job) && hasLabel(metric.GetLabel(), "status", status) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("no series for job=%s status=%s", job, status)
}

func durationSum(mfs []*dto.MetricFamily, job string) (float64, error) {
	mf := findMetricFamily(mfs, "fitcoach_cron_job_duration_seconds")
	if mf == nil {
		return 0, fmt.Errorf("duration metric not found")
	}
	for _, metric := range mf.GetMetric() {
		if hasLabel(metric.GetLabel(), "job", job) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("no series for job=%s", job)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func hasLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
