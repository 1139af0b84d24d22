package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// EstimatedDeliveryDays is the flat delivery promise shown on public tracking
const EstimatedDeliveryDays = 7

// GenerateOrderNumber produces a human-facing order number of the form
// ORD-20250114-3FA2C1. The random suffix makes collisions effectively
// impossible; the unique index on orders.order_number catches the rest.
func GenerateOrderNumber(now time.Time) string {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails if the OS entropy source is broken;
		// fall back to the clock so order creation still works
		return fmt.Sprintf("ORD-%s-%06X", now.Format("20060102"), now.UnixNano()&0xFFFFFF)
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(suffix)))
}

// PhoneDigits strips everything but digits from a phone number
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneLastFourMatch compares two phone numbers on their last 4 digits,
// ignoring formatting. This deliberately tolerates country codes and
// separators ("+91 98765-43210" matches "9876543210"). Numbers with fewer
// than 4 digits never match.
func PhoneLastFourMatch(a, b string) bool {
	da, db := PhoneDigits(a), PhoneDigits(b)
	if len(da) < 4 || len(db) < 4 {
		return false
	}
	return da[len(da)-4:] == db[len(db)-4:]
}

// EstimatedDelivery derives the delivery estimate shown on public
// tracking. Terminal orders have no estimate.
func EstimatedDelivery(status string, orderDate time.Time) *time.Time {
	switch status {
	case "delivered", "cancelled", "refunded":
		return nil
	}
	estimate := orderDate.AddDate(0, 0, EstimatedDeliveryDays)
	return &estimate
}
