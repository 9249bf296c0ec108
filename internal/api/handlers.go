package api

import (
	"net/http"

	"github.com/example/nova-commerce/internal/api/middleware"
	"github.com/example/nova-commerce/internal/command"
	"github.com/example/nova-commerce/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

// Catalog Handlers

// GetProducts lists the catalog, narrowed by ?q= or ?category= when given.
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("q") != "":
		respondJSON(w, http.StatusOK, h.queryHandler.SearchProducts(q.Get("q")))
	case q.Get("category") != "":
		respondJSON(w, http.StatusOK, h.queryHandler.ProductsByCategory(q.Get("category")))
	default:
		respondJSON(w, http.StatusOK, h.queryHandler.ListProducts())
	}
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")
	product, err := h.queryHandler.GetProduct(id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.Categories())
}

// AddReview posts a review as the signed-in user.
func (h *Handlers) AddReview(w http.ResponseWriter, r *http.Request, productID string) {
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	name := ""
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		name = claims.Name
	}

	review, product, err := h.cmdHandler.AddReview(r.Context(), command.AddReview{
		ProductID: productID,
		UserName:  name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"review": review, "product": product})
}

// Cart Handlers

type cartLineRequest struct {
	ProductID        string            `json:"product_id"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
	Quantity         int               `json:"quantity"`
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.GetCart(cartOwner(r)))
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owner := cartOwner(r)
	if _, err := h.cmdHandler.AddToCart(r.Context(), command.AddToCart{
		OwnerID:          owner,
		ProductID:        req.ProductID,
		SelectedVariants: req.SelectedVariants,
	}); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.queryHandler.GetCart(owner))
}

// UpdateCartItem sets a line's quantity. Zero or less removes the line.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owner := cartOwner(r)
	if err := h.cmdHandler.UpdateCartQuantity(r.Context(), command.UpdateCartQuantity{
		OwnerID:          owner,
		ProductID:        req.ProductID,
		SelectedVariants: req.SelectedVariants,
		Quantity:         req.Quantity,
	}); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.queryHandler.GetCart(owner))
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owner := cartOwner(r)
	if err := h.cmdHandler.RemoveFromCart(r.Context(), command.RemoveFromCart{
		OwnerID:          owner,
		ProductID:        req.ProductID,
		SelectedVariants: req.SelectedVariants,
	}); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.queryHandler.GetCart(owner))
}

// ApplyCoupon applies a code. A rejected code leaves the previous coupon
// in place and the response still carries the cart.
func (h *Handlers) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	owner := cartOwner(r)
	if _, err := h.cmdHandler.ApplyCoupon(r.Context(), command.ApplyCoupon{OwnerID: owner, Code: req.Code}); err != nil {
		respondJSON(w, statusFor(err), map[string]any{
			"error": err.Error(),
			"cart":  h.queryHandler.GetCart(owner),
		})
		return
	}
	respondJSON(w, http.StatusOK, h.queryHandler.GetCart(owner))
}

func (h *Handlers) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	owner := cartOwner(r)
	if err := h.cmdHandler.RemoveCoupon(r.Context(), command.RemoveCoupon{OwnerID: owner}); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.queryHandler.GetCart(owner))
}

// Order Handlers

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	res, err := h.cmdHandler.Checkout(r.Context(), command.Checkout{
		OwnerID: cartOwner(r),
		UserID:  middleware.GetUserID(r.Context()),
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orders := h.queryHandler.ListOrdersByUser(userID)
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/orders/")
	order, err := h.queryHandler.GetOrder(id)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	// Members only see their own orders; staff see all.
	if order.UserID != middleware.GetUserID(r.Context()) && !isStaff(r) {
		respondJSONError(w, "forbidden", http.StatusForbidden)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Notification Handlers

func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.Inbox(middleware.GetUserID(r.Context())))
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request, id string) {
	n, err := h.cmdHandler.MarkNotificationRead(r.Context(), command.MarkNotificationRead{
		UserID:         middleware.GetUserID(r.Context()),
		NotificationID: id,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, n)
}
