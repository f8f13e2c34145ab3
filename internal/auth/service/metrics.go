package service

import (
	"github.com/gnr-surgicals/inventory/internal/observability/metrics"
)

func incrementAccountsRegistered() {
	metrics.AccountsRegistered.Inc()
}

func incrementLoginAttempts(result string) {
	metrics.LoginAttempts.WithLabelValues(result).Inc()
}

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}
