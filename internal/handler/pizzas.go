package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gopizza-pos/api/internal/catalog"
	"github.com/gopizza-pos/api/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PizzaStore defines the database methods needed by pizza handlers.
// Satisfied by *store.Pizzas; narrow interface for testability.
type PizzaStore interface {
	Range(ctx context.Context, start, end string) ([]catalog.Pizza, error)
	Get(ctx context.Context, id uuid.UUID) (catalog.Pizza, error)
	Create(ctx context.Context, arg store.CreatePizzaParams) (catalog.Pizza, error)
	Update(ctx context.Context, arg store.UpdatePizzaParams) (catalog.Pizza, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// PizzaHandler handles catalog endpoints.
type PizzaHandler struct {
	store PizzaStore
}

// NewPizzaHandler creates a new PizzaHandler.
func NewPizzaHandler(store PizzaStore) *PizzaHandler {
	return &PizzaHandler{store: store}
}

// RegisterReadRoutes registers the catalog browse endpoints (any signed-in
// user). RegisterAdminRoutes registers the catalog write endpoints and is
// expected to be mounted behind middleware.RequireAdmin.
func (h *PizzaHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

func (h *PizzaHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type pizzaRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PhotoURL    string            `json:"photo_url"`
	PriceSizes  map[string]string `json:"price_sizes"`
}

type pizzaResponse struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	NameInsensitive string            `json:"name_insensitive"`
	Description     string            `json:"description"`
	PhotoURL        string            `json:"photo_url"`
	PriceSizes      map[string]string `json:"price_sizes"`
}

func toPizzaResponse(p catalog.Pizza) pizzaResponse {
	prices := make(map[string]string, len(p.Prices))
	for size, price := range p.Prices {
		prices[string(size)] = price.StringFixed(2)
	}
	return pizzaResponse{
		ID:              p.ID,
		Name:            p.Name,
		NameInsensitive: p.NameInsensitive,
		Description:     p.Description,
		PhotoURL:        p.PhotoURL,
		PriceSizes:      prices,
	}
}

// parsePriceSizes validates the admin-supplied price table. Every size key
// the order screen offers must be present with a non-negative price; the
// write path owns that invariant so readers never have to re-check it.
func parsePriceSizes(raw map[string]string) (catalog.PriceTable, string) {
	prices := make(catalog.PriceTable, len(raw))
	for key, value := range raw {
		size, err := catalog.ParseSize(key)
		if err != nil {
			return nil, "unknown size " + key
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, "invalid price for size " + key
		}
		if d.IsNegative() {
			return nil, "price for size " + key + " must be >= 0"
		}
		prices[size] = d
	}
	for _, size := range catalog.Sizes() {
		if _, ok := prices[size]; !ok {
			return nil, "price for size " + string(size) + " is required"
		}
	}
	return prices, ""
}

// --- Handlers ---

// List returns the catalog, optionally filtered by the ?q= name prefix.
// Results come back in the index's name_insensitive order.
func (h *PizzaHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end := catalog.PrefixRange(r.URL.Query().Get("q"))

	pizzas, err := h.store.Range(r.Context(), start, end)
	if err != nil {
		log.Printf("ERROR: search pizzas: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]pizzaResponse, len(pizzas))
	for i, p := range pizzas {
		resp[i] = toPizzaResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single pizza by ID.
func (h *PizzaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pizza ID"})
		return
	}

	pizza, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "pizza not found"})
			return
		}
		log.Printf("ERROR: get pizza: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toPizzaResponse(pizza))
}

// Create adds a new pizza to the catalog.
func (h *PizzaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req pizzaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	prices, msg := parsePriceSizes(req.PriceSizes)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	pizza, err := h.store.Create(r.Context(), store.CreatePizzaParams{
		Name:        req.Name,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Prices:      prices,
	})
	if err != nil {
		log.Printf("ERROR: create pizza: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toPizzaResponse(pizza))
}

// Update modifies an existing pizza.
func (h *PizzaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pizza ID"})
		return
	}

	var req pizzaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	prices, msg := parsePriceSizes(req.PriceSizes)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	pizza, err := h.store.Update(r.Context(), store.UpdatePizzaParams{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Prices:      prices,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "pizza not found"})
			return
		}
		log.Printf("ERROR: update pizza: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toPizzaResponse(pizza))
}

// Delete soft-deletes a pizza by setting is_active=false.
func (h *PizzaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pizza ID"})
		return
	}

	_, err = h.store.SoftDelete(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "pizza not found"})
			return
		}
		log.Printf("ERROR: delete pizza: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
