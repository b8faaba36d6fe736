package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// VaultMetrics ledger and oracle metrics
type VaultMetrics struct {
	operations   *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	oracleErrors *prometheus.CounterVec
	registrySize prometheus.Gauge
	price        prometheus.Gauge
	totals       *prometheus.GaugeVec
	liquidations prometheus.Counter
}

var (
	vaultOnce     sync.Once
	vaultRegistry *VaultMetrics
)

// Vault the process wide metrics, registered on first use
func Vault() *VaultMetrics {
	vaultOnce.Do(func() {
		vaultRegistry = &VaultMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "twapvault_operations_total",
				Help: "Committed ledger operations by type.",
			}, []string{"op"}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "twapvault_rejections_total",
				Help: "Rejected ledger operations by type and error code.",
			}, []string{"op", "code"}),
			oracleErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "twapvault_oracle_rejections_total",
				Help: "Oracle reads that failed validation, by reason.",
			}, []string{"reason"}),
			registrySize: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "twapvault_registry_size",
				Help: "Accounts currently indexed as liquidatable.",
			}),
			price: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "twapvault_oracle_last_valid_price",
				Help: "Last committed oracle price.",
			}),
			totals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "twapvault_market_total",
				Help: "Market aggregates, total collateral and total debt.",
			}, []string{"kind"}),
			liquidations: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "twapvault_liquidations_total",
				Help: "Executed liquidations.",
			}),
		}
		prometheus.MustRegister(
			vaultRegistry.operations,
			vaultRegistry.rejections,
			vaultRegistry.oracleErrors,
			vaultRegistry.registrySize,
			vaultRegistry.price,
			vaultRegistry.totals,
			vaultRegistry.liquidations,
		)
	})
	return vaultRegistry
}

// Handler prometheus http handler
func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *VaultMetrics) ObserveOperation(op string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op).Inc()
	if op == "liquidate" {
		m.liquidations.Inc()
	}
}

func (m *VaultMetrics) ObserveRejection(op, code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	m.rejections.WithLabelValues(op, code).Inc()
}

func (m *VaultMetrics) ObserveOracleRejection(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.oracleErrors.WithLabelValues(reason).Inc()
}

func (m *VaultMetrics) SetRegistrySize(n int) {
	if m == nil {
		return
	}
	m.registrySize.Set(float64(n))
}

func (m *VaultMetrics) SetPrice(price float64) {
	if m == nil {
		return
	}
	m.price.Set(price)
}

func (m *VaultMetrics) SetTotals(collateral, debt float64) {
	if m == nil {
		return
	}
	m.totals.WithLabelValues("collateral").Set(collateral)
	m.totals.WithLabelValues("debt").Set(debt)
}
