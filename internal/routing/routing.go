// Package routing maps the acting user's capability to the screen a catalog
// card opens, and defines the navigation collaborator consumed by the order
// flow.
package routing

// Screen names a destination the navigation collaborator understands.
type Screen string

const (
	ScreenHome    Screen = "home"
	ScreenOrder   Screen = "order"
	ScreenProduct Screen = "product"
)

// Params carries the navigation parameters for a screen.
type Params struct {
	// ID is the catalog item id; empty means create mode on the product
	// screen.
	ID string
}

// Route decides where opening a catalog item leads. Admins edit the item on
// the product screen; waiters order it. An absent id always means create
// mode, regardless of role; hiding the add button from non-admins is the
// UI's job.
func Route(isAdmin bool, id string) (Screen, Params) {
	if id == "" {
		return ScreenProduct, Params{}
	}
	if isAdmin {
		return ScreenProduct, Params{ID: id}
	}
	return ScreenOrder, Params{ID: id}
}

// Navigator is the navigation collaborator. Screen identity and back-stack
// semantics are owned by the implementation.
type Navigator interface {
	Navigate(screen Screen, params Params)
	GoBack()
}

// NavigatorFunc adapts a function to the Navigator interface; GoBack is a
// no-op.
type NavigatorFunc func(screen Screen, params Params)

func (f NavigatorFunc) Navigate(screen Screen, params Params) { f(screen, params) }

func (f NavigatorFunc) GoBack() {}
