package handler

import (
	"context"
	"net/http"
	"sort"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gopizza-pos/api/internal/catalog"
	"github.com/gopizza-pos/api/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type mockPizzaStore struct {
	pizzas map[uuid.UUID]catalog.Pizza
	err    error
}

func newMockPizzaStore() *mockPizzaStore {
	return &mockPizzaStore{pizzas: make(map[uuid.UUID]catalog.Pizza)}
}

func (m *mockPizzaStore) add(name string, prices catalog.PriceTable) catalog.Pizza {
	p := catalog.Pizza{
		ID:              uuid.New(),
		Name:            name,
		NameInsensitive: catalog.NormalizeQuery(name),
		Prices:          prices,
	}
	m.pizzas[p.ID] = p
	return p
}

func (m *mockPizzaStore) Range(_ context.Context, start, end string) ([]catalog.Pizza, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []catalog.Pizza
	for _, p := range m.pizzas {
		if p.NameInsensitive >= start && p.NameInsensitive < end {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameInsensitive < out[j].NameInsensitive })
	return out, nil
}

func (m *mockPizzaStore) Get(_ context.Context, id uuid.UUID) (catalog.Pizza, error) {
	if m.err != nil {
		return catalog.Pizza{}, m.err
	}
	p, ok := m.pizzas[id]
	if !ok {
		return catalog.Pizza{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockPizzaStore) Create(_ context.Context, arg store.CreatePizzaParams) (catalog.Pizza, error) {
	if m.err != nil {
		return catalog.Pizza{}, m.err
	}
	p := catalog.Pizza{
		ID:              uuid.New(),
		Name:            arg.Name,
		NameInsensitive: catalog.NormalizeQuery(arg.Name),
		Description:     arg.Description,
		PhotoURL:        arg.PhotoURL,
		Prices:          arg.Prices,
	}
	m.pizzas[p.ID] = p
	return p, nil
}

func (m *mockPizzaStore) Update(_ context.Context, arg store.UpdatePizzaParams) (catalog.Pizza, error) {
	if m.err != nil {
		return catalog.Pizza{}, m.err
	}
	if _, ok := m.pizzas[arg.ID]; !ok {
		return catalog.Pizza{}, pgx.ErrNoRows
	}
	p := catalog.Pizza{
		ID:              arg.ID,
		Name:            arg.Name,
		NameInsensitive: catalog.NormalizeQuery(arg.Name),
		Description:     arg.Description,
		PhotoURL:        arg.PhotoURL,
		Prices:          arg.Prices,
	}
	m.pizzas[arg.ID] = p
	return p, nil
}

func (m *mockPizzaStore) SoftDelete(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.Nil, m.err
	}
	if _, ok := m.pizzas[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.pizzas, id)
	return id, nil
}

func standardPrices() catalog.PriceTable {
	return catalog.PriceTable{
		catalog.SizeSmall:  decimal.NewFromInt(25),
		catalog.SizeMedium: decimal.NewFromInt(35),
		catalog.SizeLarge:  decimal.NewFromInt(45),
	}
}

func newPizzaRouter(s PizzaStore) http.Handler {
	r := chi.NewRouter()
	h := NewPizzaHandler(s)
	r.Route("/pizzas", func(r chi.Router) {
		h.RegisterReadRoutes(r)
		h.RegisterAdminRoutes(r)
	})
	return r
}

func TestListPizzasReturnsFullCatalogSorted(t *testing.T) {
	s := newMockPizzaStore()
	s.add("Pepperoni", standardPrices())
	s.add("Margherita", standardPrices())
	s.add("Quattro Formaggi", standardPrices())
	router := newPizzaRouter(s)

	rec := doRequest(t, router, http.MethodGet, "/pizzas", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var resp []pizzaResponse
	decodeBody(t, rec, &resp)

	if len(resp) != 3 {
		t.Fatalf("results: got %d, want 3", len(resp))
	}
	want := []string{"Margherita", "Pepperoni", "Quattro Formaggi"}
	for i, name := range want {
		if resp[i].Name != name {
			t.Errorf("result %d: got %q, want %q", i, resp[i].Name, name)
		}
	}
}

func TestListPizzasPrefixFilter(t *testing.T) {
	s := newMockPizzaStore()
	s.add("Margherita", standardPrices())
	s.add("Marinara", standardPrices())
	s.add("Pepperoni", standardPrices())
	router := newPizzaRouter(s)

	// Prefix matching is case insensitive.
	rec := doRequest(t, router, http.MethodGet, "/pizzas?q=MAR", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var resp []pizzaResponse
	decodeBody(t, rec, &resp)

	if len(resp) != 2 {
		t.Fatalf("results: got %d, want 2: %+v", len(resp), resp)
	}
	if resp[0].Name != "Margherita" || resp[1].Name != "Marinara" {
		t.Errorf("results out of order: %q, %q", resp[0].Name, resp[1].Name)
	}
}

func TestGetPizzaNotFound(t *testing.T) {
	router := newPizzaRouter(newMockPizzaStore())

	rec := doRequest(t, router, http.MethodGet, "/pizzas/"+uuid.NewString(), nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreatePizza(t *testing.T) {
	s := newMockPizzaStore()
	router := newPizzaRouter(s)

	rec := doRequest(t, router, http.MethodPost, "/pizzas", pizzaRequest{
		Name:        "Quattro Stagioni",
		Description: "Artichokes, ham, mushrooms, olives",
		PhotoURL:    "https://img.gopizza.dev/quattro.png",
		PriceSizes: map[string]string{
			"small":  "28.50",
			"medium": "38.50",
			"large":  "48.50",
		},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp pizzaResponse
	decodeBody(t, rec, &resp)

	if resp.NameInsensitive != "quattro stagioni" {
		t.Errorf("name_insensitive: got %q, want %q", resp.NameInsensitive, "quattro stagioni")
	}
	if resp.PriceSizes["medium"] != "38.50" {
		t.Errorf("medium price: got %q, want %q", resp.PriceSizes["medium"], "38.50")
	}
}

func TestCreatePizzaMissingSizePrice(t *testing.T) {
	router := newPizzaRouter(newMockPizzaStore())

	rec := doRequest(t, router, http.MethodPost, "/pizzas", pizzaRequest{
		Name: "Broken",
		PriceSizes: map[string]string{
			"small":  "25",
			"medium": "35",
		},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["error"] != "price for size large is required" {
		t.Errorf("error: got %q", resp["error"])
	}
}

func TestCreatePizzaInvalidPrice(t *testing.T) {
	router := newPizzaRouter(newMockPizzaStore())

	rec := doRequest(t, router, http.MethodPost, "/pizzas", pizzaRequest{
		Name: "Broken",
		PriceSizes: map[string]string{
			"small":  "cheap",
			"medium": "35",
			"large":  "45",
		},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdatePizzaNotFound(t *testing.T) {
	router := newPizzaRouter(newMockPizzaStore())

	rec := doRequest(t, router, http.MethodPut, "/pizzas/"+uuid.NewString(), pizzaRequest{
		Name: "Ghost",
		PriceSizes: map[string]string{
			"small":  "25",
			"medium": "35",
			"large":  "45",
		},
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDeletePizza(t *testing.T) {
	s := newMockPizzaStore()
	p := s.add("Margherita", standardPrices())
	router := newPizzaRouter(s)

	rec := doRequest(t, router, http.MethodDelete, "/pizzas/"+p.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = doRequest(t, router, http.MethodGet, "/pizzas/"+p.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status after delete: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
