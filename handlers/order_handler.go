package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/dgotpservice/dg-social-panel/provider"
	"github.com/dgotpservice/dg-social-panel/services"
	"github.com/dgotpservice/dg-social-panel/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlaceOrderRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
	Link      string `json:"link" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

const idempotencyTTL = 24 * time.Hour

// reserveIdempotencyKey claims the key for this user. Returns false when a
// previous submission already holds it.
func reserveIdempotencyKey(userID, key string) (bool, error) {
	if database.Redis == nil || key == "" {
		return true, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return database.Redis.SetNX(ctx, fmt.Sprintf("order:idem:%s:%s", userID, key), 1, idempotencyTTL).Result()
}

func releaseIdempotencyKey(userID, key string) {
	if database.Redis == nil || key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	database.Redis.Del(ctx, fmt.Sprintf("order:idem:%s:%s", userID, key))
}

// PlaceOrder implements the full order flow: validate, reprice server-side,
// place upstream, then debit and record in one transaction. The provider call
// happens before any local mutation so a provider failure leaves balance and
// history untouched.
func PlaceOrder(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	service, err := services.FindService(req.ServiceID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	total := services.ComputeOrderTotal(service.Rate, req.Quantity)
	if err := services.ValidateOrderInput(req.Link, req.Quantity, service.Min, service.Max, total); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Cheap pre-check before going upstream. The authoritative check is the
	// conditional debit inside the transaction.
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account not found"})
	}
	if user.Balance < total {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Insufficient balance! You need ₹%.2f but have only ₹%.2f", total, user.Balance),
		})
	}

	idemKey := c.Get("Idempotency-Key")
	reserved, err := reserveIdempotencyKey(userID.String(), idemKey)
	if err != nil {
		log.Printf("🔥 Redis idempotency check failed: %v", err)
	} else if !reserved {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Duplicate order submission"})
	}

	providerResp, err := provider.PlaceOrder(service.ID, req.Link, req.Quantity)
	if err != nil {
		releaseIdempotencyKey(userID.String(), idemKey)
		log.Printf("🔥 Provider order failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to place order. Please try again later."})
	}

	var order models.Order
	var remaining float64
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Conditional debit: the balance check and the decrement are one
		// statement, so concurrent orders can never drive the balance
		// negative.
		result := tx.Model(&models.User{}).
			Where("id = ? AND balance >= ?", userID, total).
			Update("balance", gorm.Expr("balance - ?", total))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("insufficient balance")
		}

		var debited models.User
		if err := tx.Select("balance").First(&debited, "id = ?", userID).Error; err != nil {
			return err
		}
		remaining = debited.Balance

		order = models.Order{
			UserID:          userID,
			ServiceID:       service.ID,
			ServiceName:     service.Name,
			Link:            req.Link,
			Quantity:        req.Quantity,
			Amount:          total,
			Status:          "pending",
			ProviderOrderID: &providerResp.OrderID,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		// The upstream order is already placed and cannot be recalled. The
		// idempotency key stays reserved so a retry cannot place a second
		// upstream order for the same submission.
		log.Printf("🔥 CRITICAL: provider order %s placed but local debit failed for user %s: %v", providerResp.OrderID, userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record order"})
	}

	websocket.PushBalance(userID, remaining)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":           "Order placed successfully",
		"order":             order,
		"remaining_balance": remaining,
	})
}

func GetMyOrders(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var orders []models.Order
	database.DB.Where("user_id = ?", userID).Order("created_at desc").Limit(50).Find(&orders)
	return c.JSON(fiber.Map{"data": orders})
}

// RequestRefill asks the provider to re-deliver a completed order of a
// refill-capable service.
func RequestRefill(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)
	orderID := c.Params("orderId")

	var order models.Order
	if err := database.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}

	if order.Status != "completed" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only completed orders can be refilled"})
	}
	if order.ProviderOrderID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order has no provider reference"})
	}

	service, err := services.FindService(order.ServiceID)
	if err != nil || !service.Refill {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "This service does not support refills"})
	}

	providerResp, err := provider.RequestRefill(*order.ProviderOrderID)
	if err != nil {
		log.Printf("🔥 Provider refill failed for order %s: %v", order.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to request refill. Please try again later."})
	}

	refill := models.Refill{
		OrderID:          order.ID,
		UserID:           order.UserID,
		ServiceName:      order.ServiceName,
		Status:           "pending",
		ProviderRefillID: &providerResp.RefillID,
	}
	if err := database.DB.Create(&refill).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record refill"})
	}

	return c.Status(fiber.StatusCreated).JSON(refill)
}

func GetMyRefills(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var refills []models.Refill
	database.DB.Where("user_id = ?", userID).Order("created_at desc").Limit(50).Find(&refills)
	return c.JSON(fiber.Map{"data": refills})
}
