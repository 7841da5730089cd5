package metrics

import "time"

type Timer struct {
	start     time.Time
	operation string
}

// StartTimer starts timing a store transaction labelled by operation.
func StartTimer(operation string) *Timer {
	return &Timer{start: time.Now(), operation: operation}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time and returns it.
func (t *Timer) ObserveDuration() time.Duration {
	d := t.Duration()
	storeTxDuration.WithLabelValues(t.operation).Observe(d.Seconds())
	return d
}
