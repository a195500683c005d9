package george

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "bot_george"

// Values of the verdict label on bot_george_messages_total beyond the AccessPolicy verdicts.
const (
	verdictNotCommand = "not_command"
	verdictDispatched = "dispatched"
)

// Values of the outcome label on bot_george_dispatch_total.
const (
	outcomeOK          = "ok"
	outcomeParseError  = "parse_error"
	outcomeUnsupported = "unsupported"
	outcomeError       = "error"
	outcomeFault       = "fault"
)

type metrics struct {
	messages     *prometheus.CounterVec
	dispatches   *prometheus.CounterVec
	sendFailures prometheus.Counter
}

// newMetrics creates the dispatcher's collectors and registers them with reg.
// A nil reg leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "messages_total",
			Help:      "Messages received, by what the dispatcher did with them.",
		}, []string{"verdict"}),
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dispatch_total",
			Help:      "Command dispatches, by terminal outcome.",
		}, []string{"outcome"}),
		sendFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "send_failures_total",
			Help:      "Replies the platform rejected or failed to deliver.",
		}),
	}
}
