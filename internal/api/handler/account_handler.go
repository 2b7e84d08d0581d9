package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rentora/property-saas/internal/api/middleware"
	"github.com/rentora/property-saas/internal/core/domain"
	"github.com/rentora/property-saas/internal/core/ports"
)

// AccountHandler serves the authenticated account surface: profile, checkout
// session creation, and the per-company seat listing.
type AccountHandler struct {
	users ports.UserRepository
}

func NewAccountHandler(users ports.UserRepository) *AccountHandler {
	return &AccountHandler{users: users}
}

type subscriptionView struct {
	ID             string       `json:"id"`
	PlanID         string       `json:"plan_id"`
	Status         string       `json:"status"`
	ComputedStatus string       `json:"computed_status"`
	StartDate      string       `json:"start_date"`
	EndDate        string       `json:"end_date"`
	RemainingDays  *int         `json:"remaining_days"`
	Plan           *domain.Plan `json:"plan,omitempty"`
}

type profileResponse struct {
	User         *domain.User      `json:"user"`
	Subscription *subscriptionView `json:"subscription"`
}

// Me returns the validated account and subscription snapshot resolved by the
// account-state gate.
func (h *AccountHandler) Me(c echo.Context) error {
	user := middleware.GetValidatedUser(c)
	sub := middleware.GetValidatedSubscription(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing validated account")
	}

	return c.JSON(http.StatusOK, profileResponse{
		User:         user,
		Subscription: newSubscriptionView(sub, time.Now()),
	})
}

func newSubscriptionView(sub *domain.Subscription, now time.Time) *subscriptionView {
	if sub == nil {
		return nil
	}
	return &subscriptionView{
		ID:             sub.ID,
		PlanID:         sub.PlanID,
		Status:         string(sub.Status),
		ComputedStatus: string(sub.ComputedStatus(now)),
		StartDate:      sub.StartDate.Format(time.RFC3339),
		EndDate:        sub.EndDate.Format(time.RFC3339),
		RemainingDays:  sub.RemainingDays(now),
		Plan:           sub.Plan,
	}
}

type checkoutRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

type checkoutResponse struct {
	SessionID string `json:"session_id"`
	PlanID    string `json:"plan_id"`
	ExpiresAt string `json:"expires_at"`
}

// CreateCheckoutSession opens a renewal/upgrade session for the caller. It
// sits behind the lenient account gate so accounts mid-renewal can reach it.
func (h *AccountHandler) CreateCheckoutSession(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, checkoutResponse{
		SessionID: uuid.NewString(),
		PlanID:    req.PlanID,
		ExpiresAt: time.Now().Add(30 * time.Minute).UTC().Format(time.RFC3339),
	})
}

type seatView struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

type seatsResponse struct {
	CompanyID string     `json:"company_id"`
	Seats     []seatView `json:"seats"`
}

// ListSeats returns every account in the given company. The route is guarded
// by the role and tenant-match gates, so by the time this runs the caller is
// an owner or manager of that same company.
func (h *AccountHandler) ListSeats(c echo.Context) error {
	companyID := c.Param("companyID")

	users, err := h.users.ListByCompanyID(c.Request().Context(), companyID)
	if err != nil {
		return err
	}

	seats := make([]seatView, 0, len(users))
	for _, u := range users {
		seats = append(seats, seatView{ID: u.ID, Email: u.Email, Role: u.Role, Active: u.Active})
	}
	return c.JSON(http.StatusOK, seatsResponse{CompanyID: companyID, Seats: seats})
}
