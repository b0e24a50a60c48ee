// Package metrics defines and registers all custom Prometheus metrics for the
// products backend. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "products"

// OrdersCreatedTotal counts successfully placed orders.
// Label:
//   - payment_method: the payment method supplied by the client
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders successfully created.",
	},
	[]string{"payment_method"},
)

// OrderStatusChangesTotal counts status updates applied to orders.
// Label:
//   - status: the new status (received, confirmed, cancelled, delivered)
var OrderStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of order status changes, by new status.",
	},
	[]string{"status"},
)

// StockRejectionsTotal counts order placements rejected by the stock check,
// whether during pre-validation or by the atomic reservation.
var StockRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_rejections_total",
		Help:      "Total number of order placements rejected for insufficient stock.",
	},
)

// ProductsCreatedTotal counts catalog products created.
var ProductsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of catalog products created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
