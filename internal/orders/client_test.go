package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/dvaldez/storefront-backend/pkg/errors"
	"github.com/dvaldez/storefront-backend/pkg/types"
)

func TestCreateOrderSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.BasketID != "basket-1" {
			t.Errorf("unexpected basket id %q", req.BasketID)
		}
		_ = json.NewEncoder(w).Encode(Order{ID: 42, Status: "Pending"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		BasketID:         "basket-1",
		DeliveryMethodID: 1,
		ShipToAddress:    types.Address{FirstName: "A", LastName: "B", Street: "1 Main", City: "X", State: "NY", PostalCode: "10001"},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != 42 {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestCreateOrderRejectionMapsToOrderCreationFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"delivery method unavailable"}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.CreateOrder(context.Background(), CreateOrderRequest{BasketID: "b"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeOrderCreation {
		t.Fatalf("expected ORDER_CREATION_FAILED, got %v", err)
	}
	if typed.Message() != "delivery method unavailable" {
		t.Fatalf("remote message not surfaced: %q", typed.Message())
	}
}

func TestCreateOrderTransportFailureMapsToDependency(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // force connection refused

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.CreateOrder(context.Background(), CreateOrderRequest{BasketID: "b"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("   "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
