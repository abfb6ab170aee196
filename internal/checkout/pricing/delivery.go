package pricing

import (
	"strconv"
	"strings"
	"time"
)

// DeliveryDays reads an estimatedDays label: anything mentioning hours means
// next day, otherwise the leading integer before any '-' is the day count.
// Labels without a leading integer fall back to one day.
func DeliveryDays(estimatedDays string) int {
	label := strings.TrimSpace(estimatedDays)
	if strings.Contains(strings.ToLower(label), "hour") {
		return 1
	}
	head, _, _ := strings.Cut(label, "-")
	end := 0
	for end < len(head) && head[end] >= '0' && head[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(head[:end])
	if err != nil {
		return 1
	}
	return n
}

// EstimatedDelivery is placedAt plus the delivery days of the method.
func EstimatedDelivery(m Method, placedAt time.Time) time.Time {
	return placedAt.AddDate(0, 0, DeliveryDays(m.EstimatedDays))
}
