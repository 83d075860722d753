package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gopizza-pos/api/internal/catalog"
	"github.com/gopizza-pos/api/internal/enum"
	"github.com/gopizza-pos/api/internal/middleware"
	"github.com/gopizza-pos/api/internal/notify"
	"github.com/gopizza-pos/api/internal/order"
	"github.com/gopizza-pos/api/internal/store"
	"github.com/gopizza-pos/api/internal/ws"
	"github.com/jackc/pgx/v5"
)

// OrderStore defines the database methods needed by order handlers.
// Satisfied by *store.Orders; narrow interface for testability.
type OrderStore interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	Get(ctx context.Context, id uuid.UUID) (order.Order, error)
	List(ctx context.Context) ([]order.Order, error)
	ListByWaiter(ctx context.Context, waiterID uuid.UUID) ([]order.Order, error)
	UpdateStatus(ctx context.Context, arg store.UpdateOrderStatusParams) (order.Order, error)
}

// OrderPizzaStore is the catalog lookup needed to load an item for ordering.
type OrderPizzaStore interface {
	Get(ctx context.Context, id uuid.UUID) (catalog.Pizza, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	store  OrderStore
	pizzas OrderPizzaStore
	hub    *ws.Hub
	pub    *notify.Publisher
}

// NewOrderHandler creates a new OrderHandler. hub and pub may be nil.
func NewOrderHandler(store OrderStore, pizzas OrderPizzaStore, hub *ws.Hub, pub *notify.Publisher) *OrderHandler {
	return &OrderHandler{store: store, pizzas: pizzas, hub: hub, pub: pub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterAdminRoutes registers the status transition endpoint; mounted
// behind middleware.RequireAdmin.
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Patch("/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type createOrderRequest struct {
	PizzaID     string `json:"pizza_id"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	TableNumber string `json:"table_number"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID          uuid.UUID `json:"id"`
	Pizza       string    `json:"pizza"`
	Size        string    `json:"size"`
	Quantity    int       `json:"quantity"`
	Amount      string    `json:"amount"`
	TableNumber string    `json:"table_number"`
	Status      string    `json:"status"`
	WaiterID    uuid.UUID `json:"waiter_id"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toOrderResponse(o order.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		Pizza:       o.Pizza,
		Size:        string(o.Size),
		Quantity:    o.Quantity,
		Amount:      o.Amount.StringFixed(2),
		TableNumber: o.TableNumber,
		Status:      o.Status,
		WaiterID:    o.WaiterID,
		Image:       o.Image,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// --- Handlers ---

// Create handles POST /orders: loads the pizza, builds a draft from the
// request, and drives it through the submission machine.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	pizzaID, err := uuid.Parse(req.PizzaID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pizza_id"})
		return
	}

	pizza, err := h.pizzas.Get(r.Context(), pizzaID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "pizza not found"})
			return
		}
		log.Printf("ERROR: load pizza for order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// A pizza missing a price for an offered size is corrupt catalog data,
	// not a user error.
	if err := catalog.ValidateForOrder(pizza); err != nil {
		log.Printf("ERROR: pizza %s not orderable: %v", pizza.ID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	draft := &order.Draft{Pizza: pizza}
	if req.Size != "" {
		size, err := catalog.ParseSize(req.Size)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid size"})
			return
		}
		draft.SetSize(size)
	}
	draft.SetQuantity(req.Quantity)
	draft.SetTableNumber(req.TableNumber)

	// The handler owns navigation over HTTP, so no navigator is attached.
	sub := order.NewSubmission(draft, h.store, nil, claims.UserID)
	created, err := sub.Submit(r.Context())
	if err != nil {
		if order.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: create order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcast(ws.EventOrderCreated, created)
	if h.pub != nil {
		h.pub.OrderCreated(r.Context(), created)
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(created))
}

// List returns the caller's own orders; admins see every order.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var (
		orders []order.Order
		err    error
	)
	if claims.IsAdmin {
		orders, err = h.store.List(r.Context())
	} else {
		orders, err = h.store.ListByWaiter(r.Context(), claims.UserID)
	}
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns one order. Waiters can only read their own orders.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	o, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if !claims.IsAdmin && o.WaiterID != claims.UserID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// UpdateStatus moves an order through its lifecycle (admin only).
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !enum.IsValidOrderStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	o, err := h.store.UpdateStatus(r.Context(), store.UpdateOrderStatusParams{
		ID:     id,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: update order status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcast(ws.EventOrderStatusUpdated, o)
	if h.pub != nil {
		h.pub.StatusChanged(r.Context(), o)
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// broadcast pushes an order event to the waiter's room and the kitchen.
func (h *OrderHandler) broadcast(eventType string, o order.Order) {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(toOrderResponse(o))
	if err != nil {
		log.Printf("ERROR: marshal %s event: %v", eventType, err)
		return
	}
	h.hub.BroadcastOrderEvent(o.WaiterID, ws.Event{Type: eventType, Payload: payload})
}
