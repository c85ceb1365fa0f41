package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Pricing rules live here as pure functions so they can be tested without a
// database or an HTTP stack.

// ApplyCommission returns the unit price per 1000 units for a base rate and
// the global commission percentage.
func ApplyCommission(baseRate, commission float64) float64 {
	return baseRate * (1 + commission/100)
}

// ComputeOrderTotal charges ratePer1000 * quantity / 1000, rounded to the
// paisa like every stored balance.
func ComputeOrderTotal(ratePer1000 float64, quantity int) float64 {
	return math.Round(ratePer1000*float64(quantity)/1000*100) / 100
}

// ValidateOrderInput rejects an order before any network call or store
// mutation. min and max come from the service definition; zero means the
// provider did not report a bound.
func ValidateOrderInput(link string, quantity, min, max int, total float64) error {
	if len(strings.TrimSpace(link)) < 3 {
		return errors.New("please enter a valid link or username")
	}
	if quantity < 10 {
		return errors.New("quantity must be at least 10")
	}
	if min > 0 && quantity < min {
		return fmt.Errorf("quantity must be at least %d for this service", min)
	}
	if max > 0 && quantity > max {
		return fmt.Errorf("quantity must be at most %d for this service", max)
	}
	if total <= 0 {
		return errors.New("total price must be greater than 0")
	}
	return nil
}
