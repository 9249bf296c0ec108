package command

// Account Commands
type Login struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type Register struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Cart Commands
type AddToCart struct {
	OwnerID          string            `json:"owner_id" validate:"required"`
	ProductID        string            `json:"product_id" validate:"required"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
}

type UpdateCartQuantity struct {
	OwnerID          string            `json:"owner_id" validate:"required"`
	ProductID        string            `json:"product_id" validate:"required"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
	Quantity         int               `json:"quantity" validate:"max=9999"`
}

type RemoveFromCart struct {
	OwnerID          string            `json:"owner_id" validate:"required"`
	ProductID        string            `json:"product_id" validate:"required"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
}

type ApplyCoupon struct {
	OwnerID string `json:"owner_id" validate:"required"`
	Code    string `json:"code" validate:"required"`
}

type RemoveCoupon struct {
	OwnerID string `json:"owner_id" validate:"required"`
}

// Order Commands

// Checkout places the owner's cart as an online order. UserID is the
// signed-in account, empty for guests.
type Checkout struct {
	OwnerID string `json:"owner_id" validate:"required"`
	UserID  string `json:"user_id"`
}

type POSItem struct {
	ProductID        string            `json:"product_id" validate:"required"`
	Quantity         int               `json:"quantity" validate:"min=1,max=9999"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
}

type POSCheckout struct {
	StaffID       string    `json:"staff_id" validate:"required"`
	Items         []POSItem `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string    `json:"payment_method" validate:"required,oneof=cash card mobile_wallet"`
}

type AdvanceOrder struct {
	OrderID string `json:"order_id" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

// Shift Commands
type OpenShift struct {
	StaffID string `json:"staff_id" validate:"required"`
}

type CloseShift struct {
	ShiftID string `json:"shift_id" validate:"required"`
}

// Catalog Commands
type AddReview struct {
	ProductID string `json:"product_id" validate:"required"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type Restock struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// Coupon Commands
type CreateCoupon struct {
	Code            string `json:"code" validate:"required,max=32"`
	DiscountPercent int    `json:"discount_percent" validate:"min=0,max=100"`
}

type SetCouponActive struct {
	Code   string `json:"code" validate:"required"`
	Active bool   `json:"active"`
}

// Notification Commands
type MarkNotificationRead struct {
	UserID         string `json:"user_id" validate:"required"`
	NotificationID string `json:"notification_id" validate:"required"`
}
