package run

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"reviewscout/pkg/logging"
)

// MetricsSnapshot flattens the gatherer's reviewscout metric families into
// loggable fields. Label values fold into the field name; counters and
// gauges map to their value, histograms to a _count and _sum pair.
func MetricsSnapshot(g prometheus.Gatherer) (logging.Fields, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	fields := logging.Fields{}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "reviewscout_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, label := range m.GetLabel() {
				name += "_" + label.GetValue()
			}
			switch {
			case m.GetHistogram() != nil:
				fields[name+"_count"] = m.GetHistogram().GetSampleCount()
				fields[name+"_sum"] = m.GetHistogram().GetSampleSum()
			case m.GetCounter() != nil:
				fields[name] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				fields[name] = m.GetGauge().GetValue()
			}
		}
	}
	return fields, nil
}

// logMetrics emits the process's counter state through the structured log at
// the end of a run. A one-shot CLI has no scrape endpoint; the summary entry
// is where the instrumentation surfaces.
func (rn *Runner) logMetrics() {
	if rn.Logger == nil {
		return
	}
	fields, err := MetricsSnapshot(prometheus.DefaultGatherer)
	if err != nil {
		rn.Logger.WithError(err).Warn("Gathering run metrics failed")
		return
	}
	rn.Logger.WithFields(fields).Info("Run metrics")
}
