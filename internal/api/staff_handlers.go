package api

import (
	"net/http"

	"github.com/example/nova-commerce/internal/api/middleware"
	"github.com/example/nova-commerce/internal/command"
)

// POS Handlers

// POSCheckout rings up a ticket as the signed-in staff member.
func (h *Handlers) POSCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items         []command.POSItem `json:"items"`
		PaymentMethod string            `json:"payment_method"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.cmdHandler.POSCheckout(r.Context(), command.POSCheckout{
		StaffID:       middleware.GetUserID(r.Context()),
		Items:         req.Items,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

// Shift Handlers

// GetShifts lists shifts, all of them with ?all=true, else the caller's.
func (h *Handlers) GetShifts(w http.ResponseWriter, r *http.Request) {
	staffID := middleware.GetUserID(r.Context())
	if r.URL.Query().Get("all") == "true" {
		staffID = ""
	}
	respondJSON(w, http.StatusOK, h.queryHandler.ListShifts(staffID))
}

func (h *Handlers) GetActiveShift(w http.ResponseWriter, r *http.Request) {
	s, ok := h.queryHandler.ActiveShift(middleware.GetUserID(r.Context()))
	if !ok {
		respondJSONError(w, "no active shift", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *Handlers) OpenShift(w http.ResponseWriter, r *http.Request) {
	s, err := h.cmdHandler.OpenShift(r.Context(), command.OpenShift{StaffID: middleware.GetUserID(r.Context())})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, s)
}

func (h *Handlers) CloseShift(w http.ResponseWriter, r *http.Request, shiftID string) {
	s, err := h.cmdHandler.CloseShift(r.Context(), command.CloseShift{ShiftID: shiftID})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// Admin Handlers

func (h *Handlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListAllOrders())
}

func (h *Handlers) AdvanceOrder(w http.ResponseWriter, r *http.Request, orderID string) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.cmdHandler.AdvanceOrder(r.Context(), command.AdvanceOrder{OrderID: orderID, Status: req.Status})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Handlers) Restock(w http.ResponseWriter, r *http.Request, productID string) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.cmdHandler.Restock(r.Context(), command.Restock{ProductID: productID, Quantity: req.Quantity})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) GetCoupons(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListCoupons())
}

func (h *Handlers) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateCoupon
	if !decodeJSON(w, r, &cmd) {
		return
	}
	c, err := h.cmdHandler.CreateCoupon(r.Context(), cmd)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handlers) SetCouponActive(w http.ResponseWriter, r *http.Request, code string) {
	var req struct {
		Active bool `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.cmdHandler.SetCouponActive(r.Context(), command.SetCouponActive{Code: code, Active: req.Active})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Report Handlers

func (h *Handlers) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.SalesReport())
}

func (h *Handlers) GetLowStock(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.LowStock())
}

func (h *Handlers) GetCustomers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.Customers())
}

func (h *Handlers) GetShiftHistory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ShiftHistory())
}
