package service

import "github.com/gnr-surgicals/inventory/internal/observability/metrics"

func incrementMutations(operation string) {
	metrics.EquipmentMutations.WithLabelValues(operation).Inc()
}

func incrementStatusAdjustments(status, result string) {
	metrics.EquipmentStatusAdjustments.WithLabelValues(status, result).Inc()
}
