package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hectorportal/auction/auction"
	"github.com/hectorportal/auction/core"
)

const namespace = "auction"

// EngineObserver exports engine events as Prometheus metrics. Every update is a
// lock-free counter or gauge operation, so it is safe inside the engine's critical section.
type EngineObserver struct {
	itemsOpened   prometheus.Counter
	bidsAccepted  *prometheus.CounterVec
	bidsRejected  *prometheus.CounterVec
	agentRounds   prometheus.Counter
	agentIntents  prometheus.Counter
	itemsResolved *prometheus.CounterVec
	salePrice     prometheus.Histogram
	totalSpend    prometheus.Gauge
	completed     prometheus.Gauge
}

var _ auction.Observer = (*EngineObserver)(nil)

// NewEngineObserver creates the collectors and registers them with reg.
func NewEngineObserver(reg prometheus.Registerer) (*EngineObserver, error) {
	o := &EngineObserver{
		itemsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_opened_total",
			Help:      "Items opened for bidding.",
		}),
		bidsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_accepted_total",
			Help:      "Accepted bids by source.",
		}, []string{"source"}),
		bidsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_rejected_total",
			Help:      "Rejected bids by source and reason.",
		}, []string{"source", "reason"}),
		agentRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_rounds_total",
			Help:      "Agent decision rounds run.",
		}),
		agentIntents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_intents_total",
			Help:      "Raise intents produced by agents.",
		}),
		itemsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_resolved_total",
			Help:      "Resolved items by outcome.",
		}, []string{"outcome"}),
		salePrice: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sale_price_millions",
			Help:      "Final sale prices in $M.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 15, 20, 30, 50},
		}),
		totalSpend: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_spend_millions",
			Help:      "Committed spend across all bidders in $M.",
		}),
		completed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "completed",
			Help:      "1 once the run has completed.",
		}),
	}

	for _, c := range []prometheus.Collector{
		o.itemsOpened, o.bidsAccepted, o.bidsRejected, o.agentRounds, o.agentIntents,
		o.itemsResolved, o.salePrice, o.totalSpend, o.completed,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *EngineObserver) ItemOpened(auction.Lot) {
	o.itemsOpened.Inc()
}

func (o *EngineObserver) BidAccepted(_ string, bid core.Bid) {
	o.bidsAccepted.WithLabelValues(string(bid.Source)).Inc()
}

func (o *EngineObserver) BidRejected(_ string, source core.BidSource, reason core.RejectReason) {
	o.bidsRejected.WithLabelValues(string(source), string(reason)).Inc()
}

func (o *EngineObserver) AgentRound(_ string, intents, _ int) {
	o.agentRounds.Inc()
	o.agentIntents.Add(float64(intents))
}

func (o *EngineObserver) ItemResolved(result core.Result) {
	if !result.Sold() {
		o.itemsResolved.WithLabelValues("unsold").Inc()
		return
	}
	o.itemsResolved.WithLabelValues("sold").Inc()
	o.salePrice.Observe(result.Price)
	o.totalSpend.Add(result.Price)
}

func (o *EngineObserver) Completed(summary auction.Summary) {
	o.totalSpend.Set(summary.TotalSpend)
	o.completed.Set(1)
}
