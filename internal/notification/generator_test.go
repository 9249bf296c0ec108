package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/domain/order"
)

func testOrder() order.Order {
	return order.Order{
		ID:     "#NV1234",
		UserID: "u1",
		Items: []order.Item{
			{Product: catalog.Product{ID: "p3", Name: "Sony WH-1000XM5", Price: 398}, Quantity: 2},
			{Product: catalog.Product{ID: "p6", Name: "Logitech MX Master 3S", Price: 99}, Quantity: 1, SelectedVariants: cart.Selection{"Color": "Graphite"}},
		},
		Total:  decimal.NewFromInt(1003),
		Tax:    decimal.NewFromInt(72),
		Status: order.StatusPending,
		Type:   order.TypeOnline,
	}
}

// ============================================
// Kind Tests
// ============================================

func TestKind_Type(t *testing.T) {
	assert.Equal(t, TypeOrderConfirmation, KindConfirmation.Type())
	assert.Equal(t, TypeShippingUpdate, KindShipping.Type())
	assert.Equal(t, TypeDeliveryConfirmation, KindDelivery.Type())
}

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status order.Status
		kind   Kind
		ok     bool
	}{
		{order.StatusShipped, KindShipping, true},
		{order.StatusDelivered, KindDelivery, true},
		{order.StatusProcessing, "", false},
		{order.StatusCancelled, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			kind, ok := KindForStatus(tt.status)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

// ============================================
// Fallback / Template Tests
// ============================================

func TestFallback(t *testing.T) {
	c := Fallback(testOrder())

	assert.Equal(t, "Order Update #NV1234", c.Subject)
	assert.Equal(t, "Order #NV1234 is currently pending.", c.Body)
}

func TestTemplateGenerator_Generate(t *testing.T) {
	c, err := TemplateGenerator{}.Generate(context.Background(), Request{Order: testOrder(), Kind: KindConfirmation})

	require.NoError(t, err)
	assert.Equal(t, "NOVA: Order #NV1234 confirmed", c.Subject)
	assert.Contains(t, c.Body, "Sony WH-1000XM5 (x2), Logitech MX Master 3S (x1)")
	assert.Contains(t, c.Body, "Total: $1,003.00")
}

func TestTemplateGenerator_ShippingSubject(t *testing.T) {
	c, err := TemplateGenerator{}.Generate(context.Background(), Request{Order: testOrder(), Kind: KindShipping})

	require.NoError(t, err)
	assert.Contains(t, c.Subject, "on its way")
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(0), "0.00"},
		{decimal.NewFromInt(999), "999.00"},
		{decimal.NewFromInt(3499), "3,499.00"},
		{decimal.RequireFromString("1234567.5"), "1,234,567.50"},
		{decimal.NewFromInt(-1500), "-1,500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.in))
		})
	}
}

// ============================================
// HTTPGenerator Tests
// ============================================

func TestHTTPGenerator_Success(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Content{Subject: "Thanks!", Body: "Your gear is coming."})
	}))
	defer srv.Close()

	g := NewHTTPGenerator(srv.URL, srv.Client())
	c, err := g.Generate(context.Background(), Request{Order: testOrder(), Kind: KindConfirmation, Email: "john@example.com"})

	require.NoError(t, err)
	assert.Equal(t, Content{Subject: "Thanks!", Body: "Your gear is coming."}, c)
	assert.Equal(t, "#NV1234", got.OrderID)
	assert.Equal(t, "john@example.com", got.Email)
	assert.Equal(t, "1003.00", got.Total)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Sony WH-1000XM5", got.Items[0].Name)
}

func TestHTTPGenerator_EmptyFieldsDefaulted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"subject":""}`))
	}))
	defer srv.Close()

	c, err := NewHTTPGenerator(srv.URL, nil).Generate(context.Background(), Request{Order: testOrder(), Kind: KindShipping})

	require.NoError(t, err)
	assert.Equal(t, "NOVA: Update for Order #NV1234", c.Subject)
	assert.Equal(t, "Your order #NV1234 has been updated to pending.", c.Body)
}

func TestHTTPGenerator_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPGenerator(srv.URL, nil).Generate(context.Background(), Request{Order: testOrder()})

	assert.ErrorIs(t, err, ErrGeneratorStatus)
}

func TestHTTPGenerator_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewHTTPGenerator(srv.URL, nil).Generate(context.Background(), Request{Order: testOrder()})

	assert.Error(t, err)
}

// ============================================
// Composer Tests
// ============================================

func TestComposer_Success(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, req Request) (Content, error) {
		return Content{Subject: "S " + req.Email, Body: "B " + string(req.Kind)}, nil
	})

	c := NewComposer(gen, time.Second).Compose(context.Background(), testOrder(), KindDelivery, "a@b.c")

	assert.Equal(t, Content{Subject: "S a@b.c", Body: "B delivery"}, c)
}

func TestComposer_ErrorFallsBack(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, req Request) (Content, error) {
		return Content{}, assert.AnError
	})

	c := NewComposer(gen, time.Second).Compose(context.Background(), testOrder(), KindConfirmation, "")

	assert.Equal(t, Fallback(testOrder()), c)
}

func TestComposer_PanicFallsBack(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, req Request) (Content, error) {
		panic("boom")
	})

	c := NewComposer(gen, time.Second).Compose(context.Background(), testOrder(), KindConfirmation, "")

	assert.Equal(t, Fallback(testOrder()), c)
}

func TestComposer_TimeoutFallsBack(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	gen := GeneratorFunc(func(ctx context.Context, req Request) (Content, error) {
		<-release
		return Content{Subject: "late", Body: "late"}, nil
	})

	start := time.Now()
	c := NewComposer(gen, 20*time.Millisecond).Compose(context.Background(), testOrder(), KindShipping, "")

	assert.Equal(t, Fallback(testOrder()), c)
	assert.Less(t, time.Since(start), time.Second)
}

func TestComposer_PartialContentFilled(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, req Request) (Content, error) {
		return Content{Subject: "Only subject"}, nil
	})

	c := NewComposer(gen, time.Second).Compose(context.Background(), testOrder(), KindConfirmation, "")

	assert.Equal(t, "Only subject", c.Subject)
	assert.Equal(t, Fallback(testOrder()).Body, c.Body)
}

func TestComposer_NilGeneratorUsesTemplate(t *testing.T) {
	c := NewComposer(nil, 0).Compose(context.Background(), testOrder(), KindConfirmation, "")

	assert.Equal(t, "NOVA: Order #NV1234 confirmed", c.Subject)
}
