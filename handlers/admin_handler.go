package handlers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/dgotpservice/dg-social-panel/notifications"
	"github.com/dgotpservice/dg-social-panel/services"
	"github.com/dgotpservice/dg-social-panel/websocket"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetAllUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := strings.TrimSpace(c.Query("search"))
	offset := (page - 1) * limit

	var users []models.User
	var totalUsers int64

	query := database.DB.Model(&models.User{})
	countQuery := database.DB.Model(&models.User{})

	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
		countQuery = countQuery.Where("name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}

	countQuery.Count(&totalUsers)
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users)

	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{
			"total_users":  totalUsers,
			"total_pages":  int(math.Ceil(float64(totalUsers) / float64(limit))),
			"current_page": page,
		},
	})
}

func ListPaymentRequests(c *fiber.Ctx) error {
	status := c.Query("status", "pending")

	var requests []models.PaymentRequest
	database.DB.Preload("User").Where("status = ?", status).Order("created_at asc").Find(&requests)
	return c.JSON(fiber.Map{"data": requests})
}

// ProcessPaymentRequest approves or rejects a pending top-up. Approval sets
// the status and credits the balance in one transaction, with the credit done
// as an atomic increment so two admins approving different requests for the
// same user never lose an update. A rejected request is kept for audit.
func ProcessPaymentRequest(c *fiber.Ctx) error {
	requestID := c.Params("requestId")

	type ProcessRequest struct {
		Decision   string `json:"decision" validate:"required,oneof=approve reject"`
		AdminNotes string `json:"admin_notes"`
	}
	var req ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request models.PaymentRequest
	if err := database.DB.Preload("User").First(&request, "id = ?", requestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment request not found"})
	}
	if request.Status != "pending" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Payment request already processed"})
	}

	newStatus := "approved"
	if req.Decision == "reject" {
		newStatus = "rejected"
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		// The status guard in the WHERE clause makes the transition terminal:
		// a concurrent second approval affects zero rows.
		result := tx.Model(&models.PaymentRequest{}).
			Where("id = ? AND status = ?", request.ID, "pending").
			Updates(map[string]interface{}{
				"status":       newStatus,
				"admin_notes":  req.AdminNotes,
				"processed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("payment request already processed")
		}

		if req.Decision == "approve" {
			if err := tx.Model(&models.User{}).Where("id = ?", request.UserID).
				Update("balance", gorm.Expr("balance + ?", request.Amount)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if err.Error() == "payment request already processed" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process payment request"})
	}

	user := request.User
	if req.Decision == "approve" {
		var updated models.User
		if err := database.DB.First(&updated, "id = ?", request.UserID).Error; err == nil {
			websocket.PushBalance(updated.ID, updated.Balance)
		}

		go notifications.SendEmail(
			user.Name,
			user.Email,
			"Your Top-Up Has Been Approved",
			fmt.Sprintf("<h1>Funds Added</h1><p>Hello %s,</p><p>Your payment of ₹%.2f (UTR %s) has been verified and added to your balance.</p>", user.Name, request.Amount, request.UTR),
		)
		go services.GenerateTopUpReceipt(request)
		go services.CompleteReferralIfApplicable(request.UserID, request.Amount)
	} else {
		go notifications.SendEmail(
			user.Name,
			user.Email,
			"Update on Your Top-Up Request",
			fmt.Sprintf("<h1>Top-Up Rejected</h1><p>Hello %s,</p><p>Your payment request of ₹%.2f (UTR %s) could not be verified.</p><p><b>Notes:</b> %s</p>", user.Name, request.Amount, request.UTR, req.AdminNotes),
		)
	}

	return c.JSON(fiber.Map{"message": "Payment request processed."})
}

// loadModerationTarget fetches the user and refuses to touch the super admin.
func loadModerationTarget(userID string) (*models.User, error) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	if user.Role == "superadmin" {
		return nil, errors.New("the super admin account cannot be modified")
	}
	return &user, nil
}

func SetUserStatus(c *fiber.Ctx) error {
	type Request struct {
		Status string `json:"status" validate:"required,oneof=active blocked"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := loadModerationTarget(c.Params("userId"))
	if err != nil {
		if err.Error() == "user not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	if err := database.DB.Model(user).Update("status", req.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user status"})
	}

	websocket.PushStatus(user.ID, req.Status)

	return c.JSON(fiber.Map{"message": "User status updated successfully."})
}

// PromoteUser grants the admin role. There is no demotion path; only the
// super admin seed outranks an admin.
func PromoteUser(c *fiber.Ctx) error {
	user, err := loadModerationTarget(c.Params("userId"))
	if err != nil {
		if err.Error() == "user not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	if user.Role == "admin" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User is already an admin"})
	}

	if err := database.DB.Model(user).Update("role", "admin").Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to promote user"})
	}

	go notifications.SendEmail(user.Name, user.Email, "You Are Now an Admin", "<h1>Admin Access Granted</h1><p>Your account has been given admin access on DG Social Service.</p>")

	return c.JSON(fiber.Map{"message": "User promoted to admin successfully."})
}

func EditUserBalance(c *fiber.Ctx) error {
	type Request struct {
		Balance float64 `json:"balance" validate:"gte=0"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := loadModerationTarget(c.Params("userId"))
	if err != nil {
		if err.Error() == "user not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	if err := database.DB.Model(user).Update("balance", req.Balance).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update balance"})
	}

	websocket.PushBalance(user.ID, req.Balance)

	return c.JSON(fiber.Map{"message": "Balance updated successfully."})
}

func GetCommission(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"commission": services.GetCommission()})
}

func UpdateCommission(c *fiber.Ctx) error {
	type Request struct {
		Commission float64 `json:"commission" validate:"gte=0,lte=100"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please enter a valid commission percentage (0-100)"})
	}

	if err := services.SetCommission(req.Commission); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update commission"})
	}

	websocket.PushCommission(req.Commission)

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Commission updated successfully to %g%%!", req.Commission)})
}

type DashboardAnalyticsResponse struct {
	TotalUsers       int64          `json:"total_users"`
	PendingPayments  int64          `json:"pending_payments"`
	ApprovedVolume   float64        `json:"approved_volume"`
	OrdersLast30Days int64          `json:"orders_last_30_days"`
	OpenTickets      int64          `json:"open_tickets"`
	RecentOrders     []models.Order `json:"recent_orders"`
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var response DashboardAnalyticsResponse
	var approvedVolume float64

	database.DB.Model(&models.User{}).Count(&response.TotalUsers)
	database.DB.Model(&models.PaymentRequest{}).Where("status = ?", "pending").Count(&response.PendingPayments)

	database.DB.Model(&models.PaymentRequest{}).Where("status = ?", "approved").Select("COALESCE(SUM(amount), 0)").Row().Scan(&approvedVolume)
	response.ApprovedVolume = approvedVolume

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.Order{}).Where("created_at > ?", thirtyDaysAgo).Count(&response.OrdersLast30Days)
	database.DB.Model(&models.Ticket{}).Where("status = ?", "open").Count(&response.OpenTickets)

	database.DB.Order("created_at desc").Limit(5).Find(&response.RecentOrders)

	return c.JSON(response)
}

func AdminGetTickets(c *fiber.Ctx) error {
	status := c.Query("status", "open")

	var tickets []models.Ticket
	database.DB.Preload("User").Where("status = ?", status).Order("created_at asc").Find(&tickets)
	return c.JSON(fiber.Map{"data": tickets})
}

func CloseTicket(c *fiber.Ctx) error {
	ticketID := c.Params("ticketId")

	result := database.DB.Model(&models.Ticket{}).Where("id = ? AND status = ?", ticketID, "open").Update("status", "closed")
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to close ticket"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Open ticket not found"})
	}

	return c.JSON(fiber.Map{"message": "Ticket closed successfully."})
}
