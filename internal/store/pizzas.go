package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/gopizza-pos/api/internal/catalog"
	"github.com/jackc/pgx/v5"
)

// Pizzas persists the catalog. The write path owns the name_insensitive
// invariant: it is always lower(trim(name)), set here and nowhere else.
type Pizzas struct {
	db DBTX
}

func NewPizzas(db DBTX) *Pizzas {
	return &Pizzas{db: db}
}

const pizzaColumns = `id, name, name_insensitive, description, photo_url, price_sizes`

func scanPizza(row pgx.Row) (catalog.Pizza, error) {
	var p catalog.Pizza
	err := row.Scan(&p.ID, &p.Name, &p.NameInsensitive, &p.Description, &p.PhotoURL, &p.Prices)
	return p, err
}

// Range returns active pizzas whose name_insensitive lies in [start, end),
// ascending by name_insensitive. This is the catalog index's prefix query.
func (s *Pizzas) Range(ctx context.Context, start, end string) ([]catalog.Pizza, error) {
	const q = `
		SELECT ` + pizzaColumns + `
		FROM pizzas
		WHERE is_active AND name_insensitive >= $1 AND name_insensitive < $2
		ORDER BY name_insensitive ASC
	`
	rows, err := s.db.Query(ctx, q, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pizzas []catalog.Pizza
	for rows.Next() {
		p, err := scanPizza(rows)
		if err != nil {
			return nil, err
		}
		pizzas = append(pizzas, p)
	}
	return pizzas, rows.Err()
}

// Get returns one active pizza by id. Returns pgx.ErrNoRows when absent.
func (s *Pizzas) Get(ctx context.Context, id uuid.UUID) (catalog.Pizza, error) {
	const q = `
		SELECT ` + pizzaColumns + `
		FROM pizzas
		WHERE id = $1 AND is_active
	`
	return scanPizza(s.db.QueryRow(ctx, q, id))
}

type CreatePizzaParams struct {
	Name        string
	Description string
	PhotoURL    string
	Prices      catalog.PriceTable
}

func (s *Pizzas) Create(ctx context.Context, arg CreatePizzaParams) (catalog.Pizza, error) {
	const q = `
		INSERT INTO pizzas (name, name_insensitive, description, photo_url, price_sizes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + pizzaColumns + `
	`
	return scanPizza(s.db.QueryRow(ctx, q,
		arg.Name, catalog.NormalizeQuery(arg.Name), arg.Description, arg.PhotoURL, arg.Prices))
}

type UpdatePizzaParams struct {
	ID          uuid.UUID
	Name        string
	Description string
	PhotoURL    string
	Prices      catalog.PriceTable
}

func (s *Pizzas) Update(ctx context.Context, arg UpdatePizzaParams) (catalog.Pizza, error) {
	const q = `
		UPDATE pizzas
		SET name = $2, name_insensitive = $3, description = $4, photo_url = $5,
		    price_sizes = $6, updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING ` + pizzaColumns + `
	`
	return scanPizza(s.db.QueryRow(ctx, q,
		arg.ID, arg.Name, catalog.NormalizeQuery(arg.Name), arg.Description, arg.PhotoURL, arg.Prices))
}

// SoftDelete deactivates a pizza. Placed orders keep their snapshots.
func (s *Pizzas) SoftDelete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	const q = `
		UPDATE pizzas
		SET is_active = false, updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING id
	`
	var deleted uuid.UUID
	err := s.db.QueryRow(ctx, q, id).Scan(&deleted)
	return deleted, err
}
