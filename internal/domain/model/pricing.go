package model

import (
	"fmt"
	"math"
)

// PlatformFeePercent is the share of every purchase retained by the platform.
// The creator receives the remainder.
const PlatformFeePercent = 20

// FormatPrice renders an amount in minor currency units (cents) as a
// human-readable dollar string, e.g. 499 -> "$4.99".
func FormatPrice(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s$%d.%02d", sign, minor/100, minor%100)
}

// CalculateBundlePrice returns the discounted total for a multi-season
// bundle: sum(prices) minus round(sum * discountPercent / 100).
// discountPercent is clamped into [0,100], so the result always satisfies
// 0 <= result <= sum(prices).
func CalculateBundlePrice(seasonPrices []int64, discountPercent int) int64 {
	if discountPercent < 0 {
		discountPercent = 0
	}
	if discountPercent > 100 {
		discountPercent = 100
	}
	var total int64
	for _, p := range seasonPrices {
		total += p
	}
	discount := roundHalfAway(float64(total) * float64(discountPercent) / 100)
	return total - discount
}

// SplitAmount divides a purchase amount into the platform fee and the
// creator share. platformFee + creatorShare == amount always holds; the fee
// absorbs the rounding.
func SplitAmount(amount int64) (platformFee, creatorShare int64) {
	platformFee = roundHalfAway(float64(amount) * PlatformFeePercent / 100)
	return platformFee, amount - platformFee
}

// AllocateBundle distributes a bundle session total across seasons in
// proportion to their list prices. When every price is zero the total is
// split equally. Each allocation is rounded independently, so the sum of the
// result may drift from total by up to one minor unit per season; callers
// must not "fix" this by adjusting the last entry.
func AllocateBundle(total int64, seasonPrices []int64) []int64 {
	n := len(seasonPrices)
	if n == 0 {
		return nil
	}
	var priceSum int64
	for _, p := range seasonPrices {
		priceSum += p
	}
	out := make([]int64, n)
	for i, p := range seasonPrices {
		proportion := 1 / float64(n)
		if priceSum > 0 {
			proportion = float64(p) / float64(priceSum)
		}
		out[i] = roundHalfAway(float64(total) * proportion)
	}
	return out
}

// roundHalfAway rounds to the nearest integer, ties away from zero. One
// rounding rule is used for discounts, fees and allocations so the numbers
// reconcile across call sites.
func roundHalfAway(f float64) int64 {
	return int64(math.Round(f))
}
