// Package metrics records service outcomes as Prometheus metrics. Recorder
// implements services.Observer; it is the single source of truth for metric
// names, labels and help strings.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Auth attempt outcomes.
const (
	OutcomeSuccess            = "success"
	OutcomeUserNotFound       = "user_not_found"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeError              = "error"
)

// Operation results.
const (
	ResultOK           = "ok"
	ResultInvalidInput = "invalid_input"
	ResultDuplicate    = "duplicate"
	ResultNotFound     = "not_found"
	ResultUnauthorized = "unauthorized"
	ResultStorageError = "storage_error"
	ResultError        = "error"
)

type Recorder struct {
	// AuthAttemptsTotal counts password checks.
	// Label:
	//   - outcome: success, user_not_found, invalid_credentials or error
	AuthAttemptsTotal *prometheus.CounterVec

	// OperationsTotal counts service calls.
	// Labels:
	//   - operation: e.g. "create_cat", "update_password"
	//   - result: ok, invalid_input, duplicate, not_found, unauthorized, storage_error or error
	OperationsTotal *prometheus.CounterVec

	// OperationDuration measures service calls end to end, store round trips
	// and password hashing included.
	// Label:
	//   - operation
	OperationDuration *prometheus.HistogramVec
}

// NewRecorder creates the metrics and registers them with reg.
func NewRecorder(namespace string, reg prometheus.Registerer) (r *Recorder, err error) {
	// promauto panics on duplicate registration
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("register metrics: %v", p)
		}
	}()

	f := promauto.With(reg)

	return &Recorder{
		AuthAttemptsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Total number of password checks, by outcome.",
			},
			[]string{"outcome"},
		),
		OperationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of service operations, by operation and result.",
			},
			[]string{"operation", "result"},
		),
		OperationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of service operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}, nil
}

func (r *Recorder) AuthAttempt(err error) {
	r.AuthAttemptsTotal.WithLabelValues(AuthOutcome(err)).Inc()
}

func (r *Recorder) Operation(op string, err error, elapsed time.Duration) {
	r.OperationsTotal.WithLabelValues(op, Result(err)).Inc()
	r.OperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// AuthOutcome maps an authentication error to its outcome label.
func AuthOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, common.ErrUserNotFound):
		return OutcomeUserNotFound
	case errors.Is(err, common.ErrInvalidCredentials):
		return OutcomeInvalidCredentials
	default:
		return OutcomeError
	}
}

// Result maps a service error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, common.ErrInvalidInput):
		return ResultInvalidInput
	case errors.Is(err, common.ErrDuplicateUser), errors.Is(err, common.ErrDuplicateName):
		return ResultDuplicate
	case errors.Is(err, common.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, common.ErrUnauthorized):
		return ResultUnauthorized
	case errors.Is(err, common.ErrStorage):
		return ResultStorageError
	default:
		return ResultError
	}
}

// WriteTextfile writes every metric gathered by g to path in the format
// read by the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
