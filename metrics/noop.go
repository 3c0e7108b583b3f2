package metrics

type noop struct{}

// Noop is a Recorder that discards every observation; used as the default
// when server.New/client.New is given a nil Recorder, and in
// tests that don't assert on metrics.
func Noop() Recorder { return noop{} }

func (noop) Rate(prefix, name string, tags Tags)                   {}
func (noop) Histogram(prefix, name string, value float64, tags Tags) {}
func (noop) Counter(prefix, name string, delta float64, tags Tags)  {}
