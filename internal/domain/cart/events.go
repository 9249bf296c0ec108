package cart

import "time"

const (
	EventItemAdded       = "ItemAddedToCart"
	EventQuantityChanged = "CartQuantityChanged"
	EventItemRemoved     = "ItemRemovedFromCart"
	EventCartCleared     = "CartCleared"
)

type ItemAddedToCart struct {
	CartID           string            `json:"cart_id"`
	OwnerID          string            `json:"owner_id"`
	ProductID        string            `json:"product_id"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
	Quantity         int               `json:"quantity"`
	Price            int64             `json:"price"`
	AddedAt          time.Time         `json:"added_at"`
}

type CartQuantityChanged struct {
	CartID           string            `json:"cart_id"`
	OwnerID          string            `json:"owner_id"`
	ProductID        string            `json:"product_id"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
	Quantity         int               `json:"quantity"`
	ChangedAt        time.Time         `json:"changed_at"`
}

type ItemRemovedFromCart struct {
	CartID           string            `json:"cart_id"`
	OwnerID          string            `json:"owner_id"`
	ProductID        string            `json:"product_id"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
	RemovedAt        time.Time         `json:"removed_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	OwnerID   string    `json:"owner_id"`
	ClearedAt time.Time `json:"cleared_at"`
}
