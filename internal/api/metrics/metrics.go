// Package metrics defines the custom Prometheus metrics of the marketplace
// API. It is the single source of truth for metric names, labels and help
// strings. All metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coderr"

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
// Label:
//   - role: "customer" or "business"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
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

// AuthorizationDenialsTotal counts requests rejected with 403.
// Label:
//   - route: the matched route path (e.g. "/api/orders/:id")
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied by an authorization rule.",
	},
	[]string{"route"},
)

// ── Marketplace metrics ───────────────────────────────────────────────────────

var OffersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_created_total",
		Help:      "Total number of offers created.",
	},
)

var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders placed.",
	},
)

// OrderStatusChangesTotal counts order status updates.
// Label:
//   - status: the new status ("in_progress", "completed", "cancelled")
var OrderStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of order status updates, by new status.",
	},
	[]string{"status"},
)

var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	},
)
