package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cambliss-news-backend/internal/domain"
	"cambliss-news-backend/internal/domain/model"
	"cambliss-news-backend/internal/domain/ports/repository"
)

type orderRequest struct {
	PlanID   string `json:"planId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type orderResponse struct {
	Success  bool   `json:"success"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

type verifyRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	PlanID    string `json:"planId"`
}

type paymentView struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // rupees, not paise
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
}

type verifyResponse struct {
	Success        bool        `json:"success"`
	Message        string      `json:"message"`
	SubscriptionID string      `json:"subscriptionId"`
	Payment        paymentView `json:"payment"`
}

type subscriptionView struct {
	ID               string     `json:"id"`
	PlanID           string     `json:"planId"`
	Tier             model.Tier `json:"tier"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          time.Time  `json:"endDate"`
	Status           string     `json:"status"`
	PaymentMethod    string     `json:"paymentMethod"`
	GatewayOrderID   string     `json:"gatewayOrderId"`
	GatewayPaymentID string     `json:"gatewayPaymentId"`
}

func viewOf(s *model.Subscription) *subscriptionView {
	if s == nil {
		return nil
	}
	return &subscriptionView{
		ID:               s.ID,
		PlanID:           s.PlanID,
		Tier:             s.Tier,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		Status:           string(s.Status),
		PaymentMethod:    s.PaymentMethod,
		GatewayOrderID:   s.GatewayOrderID,
		GatewayPaymentID: s.GatewayPaymentID,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":             "OK",
		"message":            "Cambliss News Payment Server Active",
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"razorpayConfigured": s.gateway.Configured(),
	})
}

func (s *Server) handleListPlans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"plans": s.planUC.List()})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	points, err := s.users.Points(r.Context(), repository.NoTX, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load profile", "please try again")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"userId": userID,
		"points": points,
	})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "request body must be JSON")
		return
	}
	if req.PlanID == "" || req.Amount == 0 || req.Currency == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: planId, amount, currency", "")
		return
	}

	order, err := s.checkoutUC.CreateOrder(r.Context(), UserID(r.Context()), req.PlanID, req.Amount, req.Currency)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Invalid plan, amount or currency", "")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create order", "please try again later")
		}
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{
		Success:  true,
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "request body must be JSON")
		return
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		writeError(w, http.StatusBadRequest, "Missing payment verification parameters", "")
		return
	}

	cb := model.PaymentCallback{OrderID: req.OrderID, PaymentID: req.PaymentID, Signature: req.Signature}
	sub, payment, err := s.checkoutUC.VerifyAndActivate(r.Context(), UserID(r.Context()), req.PlanID, cb)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			writeError(w, http.StatusBadRequest, "Invalid signature", "Payment verification failed")
		case errors.Is(err, domain.ErrOrderNotOutstanding):
			writeError(w, http.StatusBadRequest, "Unknown or already verified order", "")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Missing payment verification parameters", "")
		case errors.Is(err, domain.ErrLockNotAcquired):
			writeError(w, http.StatusConflict, "Another checkout is in progress", "please retry")
		default:
			writeError(w, http.StatusInternalServerError, "Verification failed", "please contact support")
		}
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Success:        true,
		Message:        "Payment verified successfully",
		SubscriptionID: sub.ID,
		Payment: paymentView{
			ID:       payment.ID,
			Amount:   payment.Amount / 100,
			Currency: payment.Currency,
			Status:   payment.Status,
			Method:   payment.Method,
			Email:    payment.Email,
			Contact:  payment.Contact,
		},
	})
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subUC.Current(r.Context(), UserID(r.Context()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"subscription": nil})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load subscription", "please try again")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"subscription": viewOf(sub)})
}

func (s *Server) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subUC.Cancel(r.Context(), UserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "No subscription to cancel", "")
		case errors.Is(err, domain.ErrNoActiveSubscription):
			writeError(w, http.StatusConflict, "Subscription is not active", "")
		case errors.Is(err, domain.ErrLockNotAcquired):
			writeError(w, http.StatusConflict, "Another operation is in progress", "please retry")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to cancel subscription", "please try again")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "subscription": viewOf(sub)})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the client-facing error. message is the human-readable
// detail; internal diagnostics stay in the logs.
func writeError(w http.ResponseWriter, code int, errMsg, message string) {
	body := map[string]string{"error": errMsg}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, code, body)
}
