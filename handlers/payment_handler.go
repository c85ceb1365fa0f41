package handlers

import (
	"fmt"
	"net/url"
	"strings"

	config "github.com/dgotpservice/dg-social-panel/configs"
	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type SubmitPaymentRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	UTR      string  `json:"utr" validate:"required"`
	ProofURL *string `json:"proof_url,omitempty" validate:"omitempty,url"`
}

// BuildUPIQRCodeURL renders the UPI deep link as a QR image URL. Pure so the
// encoding is testable.
func BuildUPIQRCodeURL(upiID string, amount float64) string {
	deepLink := fmt.Sprintf("upi://pay?pa=%s&am=%.2f&cu=INR&tn=DG Social Service Payment", upiID, amount)
	return "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=" + url.QueryEscape(deepLink)
}

// GetPaymentQR returns the QR image for a manual UPI transfer. The user pays,
// then submits the UTR for admin verification.
func GetPaymentQR(c *fiber.Ctx) error {
	amount := c.QueryFloat("amount")
	if amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please enter a valid amount"})
	}

	upiID := config.Config("UPI_ID")
	if upiID == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment collection not configured"})
	}

	return c.JSON(fiber.Map{
		"upi_id": upiID,
		"amount": amount,
		"qr_url": BuildUPIQRCodeURL(upiID, amount),
	})
}

// SubmitPayment records a pending top-up request. No balance changes here;
// credit happens only on admin approval.
func SubmitPayment(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	utr := strings.TrimSpace(req.UTR)
	if len(utr) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please enter a valid UTR/Transaction ID"})
	}

	request := models.PaymentRequest{
		UserID:   userID,
		Amount:   req.Amount,
		UTR:      utr,
		ProofURL: req.ProofURL,
		Status:   "pending",
	}
	if err := database.DB.Create(&request).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit payment request"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "UTR submitted successfully! Admin will approve it soon.",
		"request": request,
	})
}

func GetMyPayments(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var requests []models.PaymentRequest
	database.DB.Where("user_id = ?", userID).Order("created_at desc").Limit(50).Find(&requests)
	return c.JSON(fiber.Map{"data": requests})
}
