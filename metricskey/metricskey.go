package metricskey

import "github.com/effective-security/metrics"

// Perf
var (
	// PerfDigestOperation is perf metric
	PerfDigestOperation = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_digest",
		Help:         "perf_digest provides the sample metrics of digest operations",
		RequiredTags: []string{"provider", "action"},
	}

	// PerfDigestSession is perf metric
	PerfDigestSession = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_digest_session",
		Help:         "perf_digest_session provides the sample metrics of session lifetime",
		RequiredTags: []string{"provider", "algo"},
	}

	// PerfDigestOneshot is perf metric
	PerfDigestOneshot = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_digest_oneshot",
		Help:         "perf_digest_oneshot provides the sample metrics of one-shot digest operations",
		RequiredTags: []string{"provider", "algo"},
	}
)

// Metrics returns slice of metrics from this repo
var Metrics = []*metrics.Describe{
	&PerfDigestOperation,
	&PerfDigestSession,
	&PerfDigestOneshot,
}
