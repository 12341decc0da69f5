// Package shops holds the static directory of lunch shops the office orders
// from: name, delivery webpage and menu. Name matching is case-insensitive.
package shops

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrShopNotFound is returned when a name matches no shop in the directory.
var ErrShopNotFound = errors.New("shop not found")

// Shop is one entry in the directory. URL and Menu may be empty; several
// shops are walk-in only.
type Shop struct {
	Name string
	URL  string
	Menu []string
}

// Directory is a static lookup table of shops.
type Directory struct {
	shops []Shop
}

// NewDirectory creates a directory from the given shop list.
func NewDirectory(list []Shop) *Directory {
	return &Directory{shops: list}
}

// Default returns the directory seeded with the built-in shop list.
func Default() *Directory {
	return NewDirectory(defaultShops)
}

// Lookup finds a shop by name, ignoring case.
func (d *Directory) Lookup(name string) (Shop, error) {
	for _, shop := range d.shops {
		if strings.EqualFold(shop.Name, name) {
			return shop, nil
		}
	}
	return Shop{}, errors.Wrap(ErrShopNotFound, name)
}

// Names returns all shop names in declaration order.
func (d *Directory) Names() []string {
	names := make([]string, len(d.shops))
	for i, shop := range d.shops {
		names[i] = shop.Name
	}
	return names
}
