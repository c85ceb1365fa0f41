package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dgotpservice/dg-social-panel/provider"
)

// PricedService is a catalog entry with the commission markup already
// applied. Rate is the charged price per 1000 units.
type PricedService struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Rate     float64 `json:"rate"`
	Min      int     `json:"min"`
	Max      int     `json:"max"`
	Refill   bool    `json:"refill"`
}

var (
	catalogCache     []provider.Service
	catalogMutex     sync.RWMutex
	lastCatalogFetch time.Time
)

const catalogTTL = 5 * time.Minute

func getCatalog() ([]provider.Service, error) {
	catalogMutex.RLock()
	if time.Since(lastCatalogFetch) < catalogTTL && catalogCache != nil {
		cached := catalogCache
		catalogMutex.RUnlock()
		return cached, nil
	}
	catalogMutex.RUnlock()

	log.Println("Fetching fresh service catalog from provider...")
	services, err := provider.GetServices("")
	if err != nil {
		// Serve a stale catalog over none at all.
		catalogMutex.RLock()
		stale := catalogCache
		catalogMutex.RUnlock()
		if stale != nil {
			log.Printf("⚠️ Provider catalog fetch failed, serving stale cache: %v", err)
			return stale, nil
		}
		return nil, err
	}

	catalogMutex.Lock()
	catalogCache = services
	lastCatalogFetch = time.Now()
	catalogMutex.Unlock()
	log.Println("Successfully updated service catalog cache.")

	return services, nil
}

// RefreshCatalog forces a fetch on the next read. Called by the catalog cron
// job so ordinary requests rarely pay the provider round trip.
func RefreshCatalog() {
	catalogMutex.Lock()
	lastCatalogFetch = time.Time{}
	catalogMutex.Unlock()

	if _, err := getCatalog(); err != nil {
		log.Printf("🔥 Catalog refresh failed: %v", err)
	}
}

// PriceCatalog applies the commission to every raw service. Split out so the
// markup math is testable without the provider.
func PriceCatalog(raw []provider.Service, commissionValue float64) []PricedService {
	priced := make([]PricedService, 0, len(raw))
	for _, s := range raw {
		priced = append(priced, PricedService{
			ID:       s.ID,
			Name:     s.Name,
			Category: s.Category,
			Rate:     ApplyCommission(s.Rate, commissionValue),
			Min:      s.Min,
			Max:      s.Max,
			Refill:   s.Refill,
		})
	}
	return priced
}

// ListServices returns the commission-adjusted catalog, optionally filtered
// by category.
func ListServices(category string) ([]PricedService, error) {
	raw, err := getCatalog()
	if err != nil {
		return nil, err
	}

	commission := GetCommission()
	priced := make([]PricedService, 0, len(raw))
	for _, s := range raw {
		if category != "" && s.Category != category {
			continue
		}
		priced = append(priced, PricedService{
			ID:       s.ID,
			Name:     s.Name,
			Category: s.Category,
			Rate:     ApplyCommission(s.Rate, commission),
			Min:      s.Min,
			Max:      s.Max,
			Refill:   s.Refill,
		})
	}
	return priced, nil
}

// FindService resolves one service by id with the current markup applied.
// Order placement always reprices here, never from a client-sent rate.
func FindService(serviceID string) (*PricedService, error) {
	raw, err := getCatalog()
	if err != nil {
		return nil, err
	}

	for _, s := range raw {
		if s.ID == serviceID {
			return &PricedService{
				ID:       s.ID,
				Name:     s.Name,
				Category: s.Category,
				Rate:     ApplyCommission(s.Rate, GetCommission()),
				Min:      s.Min,
				Max:      s.Max,
				Refill:   s.Refill,
			}, nil
		}
	}
	return nil, errors.New("service not found")
}
