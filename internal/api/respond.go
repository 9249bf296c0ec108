package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/nova-commerce/internal/api/middleware"
	"github.com/example/nova-commerce/internal/command"
	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/domain/coupon"
	"github.com/example/nova-commerce/internal/domain/inventory"
	"github.com/example/nova-commerce/internal/domain/order"
	"github.com/example/nova-commerce/internal/domain/review"
	"github.com/example/nova-commerce/internal/domain/shift"
	"github.com/example/nova-commerce/internal/domain/user"
	"github.com/example/nova-commerce/internal/logger"
	"github.com/example/nova-commerce/internal/notification"
)

// CartHeader names the guest cart of an anonymous client.
const CartHeader = "X-Cart-ID"

// GuestCartID is the cart used by anonymous clients without a CartHeader.
const GuestCartID = "guest"

var errorStatus = []struct {
	err    error
	status int
}{
	{command.ErrInvalidCommand, http.StatusBadRequest},
	{cart.ErrInvalidVariant, http.StatusBadRequest},
	{cart.ErrInvalidOwner, http.StatusBadRequest},
	{cart.ErrProductNeeded, http.StatusBadRequest},
	{cart.ErrQuantityTooLarge, http.StatusBadRequest},
	{order.ErrNegativeTotal, http.StatusBadRequest},
	{shift.ErrNegativeSale, http.StatusBadRequest},
	{review.ErrInvalidReview, http.StatusBadRequest},
	{inventory.ErrInvalidQuantity, http.StatusBadRequest},
	{coupon.ErrInvalidCode, http.StatusBadRequest},
	{coupon.ErrInvalidPercent, http.StatusBadRequest},
	{order.ErrInvalidStatus, http.StatusBadRequest},
	{order.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{user.ErrInvalidEmail, http.StatusBadRequest},
	{user.ErrInvalidName, http.StatusBadRequest},

	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{command.ErrNotStaff, http.StatusForbidden},

	{catalog.ErrProductNotFound, http.StatusNotFound},
	{cart.ErrLineNotFound, http.StatusNotFound},
	{order.ErrOrderNotFound, http.StatusNotFound},
	{shift.ErrShiftNotFound, http.StatusNotFound},
	{notification.ErrNotificationNotFound, http.StatusNotFound},
	{user.ErrUserNotFound, http.StatusNotFound},

	{shift.ErrShiftAlreadyActive, http.StatusConflict},
	{shift.ErrShiftClosed, http.StatusConflict},
	{user.ErrEmailTaken, http.StatusConflict},
	{coupon.ErrDuplicateCoupon, http.StatusConflict},

	{command.ErrEmptyCart, http.StatusUnprocessableEntity},
	{order.ErrEmptyOrder, http.StatusUnprocessableEntity},
	{order.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{coupon.ErrCouponNotFound, http.StatusUnprocessableEntity},
}

// statusFor maps a domain error onto an HTTP status.
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondErr writes err with its mapped status. Internal errors are logged
// and hidden from the client.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.For("api").WithError(err).WithField("path", r.URL.Path).Error("request failed")
		respondJSONError(w, "internal error", status)
		return
	}
	respondJSONError(w, err.Error(), status)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func extractPathParam(path, prefix string) string {
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}

// pathSegments splits what follows prefix, e.g. "/api/shifts/SHT-1/close"
// with prefix "/api/shifts/" yields ["SHT-1", "close"].
func pathSegments(path, prefix string) []string {
	rest := extractPathParam(path, prefix)
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// cartOwner picks the cart for the request: the signed-in user's own cart,
// the client's guest cart id, or the shared guest cart.
func cartOwner(r *http.Request) string {
	if userID := middleware.GetUserID(r.Context()); userID != "" {
		return userID
	}
	if id := strings.TrimSpace(r.Header.Get(CartHeader)); id != "" {
		return GuestCartID + ":" + id
	}
	return GuestCartID
}

func isStaff(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	return ok && user.Role(claims.Role).IsStaff()
}
