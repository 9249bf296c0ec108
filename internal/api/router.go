package api

import (
	"net/http"

	"github.com/example/nova-commerce/internal/api/middleware"
	"github.com/example/nova-commerce/internal/auth"
	"github.com/example/nova-commerce/internal/domain/user"
)

type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWTService   *auth.JWTService
	WebDir       string
}

func methodNotAllowed(w http.ResponseWriter) {
	respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	h := cfg.Handlers

	optional := middleware.OptionalAuthMiddleware(cfg.JWTService)
	requireAuth := middleware.AuthMiddleware(cfg.JWTService)
	requireStaff := func(next http.Handler) http.Handler {
		return requireAuth(middleware.RequireRole(string(user.RoleManager), string(user.RoleCashier))(next))
	}

	// Static files (web UI)
	if cfg.WebDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.WebDir)))
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		cfg.AuthHandlers.Register(w, r)
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		cfg.AuthHandlers.Login(w, r)
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		cfg.AuthHandlers.Logout(w, r)
	})
	mux.Handle("/api/auth/me", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		cfg.AuthHandlers.Me(w, r)
	})))

	// Catalog
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.GetProducts(w, r)
	})
	mux.Handle("/api/products/", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seg := pathSegments(r.URL.Path, "/api/products/")
		switch {
		case len(seg) == 1 && r.Method == http.MethodGet:
			h.GetProduct(w, r)
		case len(seg) == 2 && seg[1] == "reviews" && r.Method == http.MethodPost:
			h.AddReview(w, r, seg[0])
		default:
			methodNotAllowed(w)
		}
	})))
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.GetCategories(w, r)
	})

	// Cart
	mux.Handle("/api/cart", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.GetCart(w, r)
	})))
	mux.Handle("/api/cart/items", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.AddToCart(w, r)
		case http.MethodPut:
			h.UpdateCartItem(w, r)
		case http.MethodDelete:
			h.RemoveFromCart(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/api/cart/coupon", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.ApplyCoupon(w, r)
		case http.MethodDelete:
			h.RemoveCoupon(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/api/checkout", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.Checkout(w, r)
	})))

	// Orders
	mux.Handle("/api/orders", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.GetOrders(w, r)
	})))
	mux.Handle("/api/orders/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.GetOrder(w, r)
	})))

	// Notifications
	mux.Handle("/api/notifications", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.GetNotifications(w, r)
	})))
	mux.Handle("/api/notifications/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seg := pathSegments(r.URL.Path, "/api/notifications/")
		if len(seg) != 2 || seg[1] != "read" || r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.MarkNotificationRead(w, r, seg[0])
	})))

	// POS and shifts
	mux.Handle("/api/pos/checkout", requireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.POSCheckout(w, r)
	})))
	mux.Handle("/api/shifts", requireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetShifts(w, r)
		case http.MethodPost:
			h.OpenShift(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/api/shifts/", requireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seg := pathSegments(r.URL.Path, "/api/shifts/")
		switch {
		case len(seg) == 1 && seg[0] == "active" && r.Method == http.MethodGet:
			h.GetActiveShift(w, r)
		case len(seg) == 1 && seg[0] == "history" && r.Method == http.MethodGet:
			h.GetShiftHistory(w, r)
		case len(seg) == 2 && seg[1] == "close" && r.Method == http.MethodPost:
			h.CloseShift(w, r, seg[0])
		default:
			methodNotAllowed(w)
		}
	})))

	// Admin
	mux.Handle("/api/admin/orders", requireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.GetAllOrders(w, r)
	})))
	mux.Handle("/api/admin/orders/", requireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seg := pathSegments(r.URL.Path, "/api/admin/orders/")
		if len(seg) != 2 || seg[1] != "status" || r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.AdvanceOrder(w, r, seg[0])
	})))
	mux.Handle("/api/admin/products/", requireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seg := pathSegments(r.URL.Path, "/api/admin/products/")
		if len(seg) != 2 || seg[1] != "restock" || r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.Restock(w, r, seg[0])
	})))
	mux.Handle("/api/admin/coupons", requireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetCoupons(w, r)
		case http.MethodPost:
			h.CreateCoupon(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/api/admin/coupons/", requireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seg := pathSegments(r.URL.Path, "/api/admin/coupons/")
		if len(seg) != 2 || seg[1] != "active" || r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.SetCouponActive(w, r, seg[0])
	})))
	mux.Handle("/api/admin/reports/sales", requireStaff(http.HandlerFunc(h.GetSalesReport)))
	mux.Handle("/api/admin/inventory/low-stock", requireStaff(http.HandlerFunc(h.GetLowStock)))
	mux.Handle("/api/admin/customers", requireStaff(http.HandlerFunc(h.GetCustomers)))

	return middleware.Recover(middleware.Logging(mux))
}
