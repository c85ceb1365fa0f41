package jobs

import (
	"log"

	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/dgotpservice/dg-social-panel/provider"
	"github.com/dgotpservice/dg-social-panel/websocket"
)

// SyncOrderStatuses polls the upstream panel for every order we still
// consider in flight and mirrors the terminal status locally.
func SyncOrderStatuses() {
	log.Println("Running job: SyncOrderStatuses...")

	var openOrders []models.Order
	err := database.DB.
		Where("status IN ? AND provider_order_id IS NOT NULL", []string{"pending", "processing", "in_progress"}).
		Limit(200).
		Find(&openOrders).Error
	if err != nil {
		log.Printf("Error loading open orders: %v", err)
		return
	}

	if len(openOrders) == 0 {
		log.Println("No open orders to sync.")
		return
	}

	updated := 0
	for _, order := range openOrders {
		status, err := provider.GetOrderStatus(*order.ProviderOrderID)
		if err != nil {
			log.Printf("Error fetching status for order %s: %v", order.ID, err)
			continue
		}
		if status.Status == "" || status.Status == order.Status {
			continue
		}

		if err := database.DB.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", status.Status).Error; err != nil {
			log.Printf("Error updating order %s: %v", order.ID, err)
			continue
		}
		websocket.PushOrderStatus(order.UserID, order.ID.String(), status.Status)
		updated++
	}

	if updated > 0 {
		log.Printf("Synced %d order status change(s).", updated)
	}
}

// SyncRefillStatuses resolves pending refill requests the same way. The
// upstream reports refill progress through the order status endpoint.
func SyncRefillStatuses() {
	var openRefills []models.Refill
	err := database.DB.
		Preload("Order").
		Where("status = ?", "pending").
		Limit(100).
		Find(&openRefills).Error
	if err != nil {
		log.Printf("Error loading pending refills: %v", err)
		return
	}

	for _, refill := range openRefills {
		if refill.Order.ProviderOrderID == nil {
			continue
		}
		status, err := provider.GetOrderStatus(*refill.Order.ProviderOrderID)
		if err != nil {
			log.Printf("Error fetching refill status for order %s: %v", refill.OrderID, err)
			continue
		}
		if status.Status != "completed" {
			continue
		}

		if err := database.DB.Model(&models.Refill{}).
			Where("id = ? AND status = ?", refill.ID, "pending").
			Update("status", "completed").Error; err != nil {
			log.Printf("Error updating refill %s: %v", refill.ID, err)
		}
	}
}
