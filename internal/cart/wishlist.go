package cart

import (
	"slices"
	"strings"
	"sync"

	"github.com/drstein77/storefront/internal/models"
)

type Wishlist struct {
	mx  sync.Mutex
	ids []string
}

// Toggle adds the product when absent and removes it otherwise. It returns
// whether the product is on the wishlist afterwards.
func (w *Wishlist) Toggle(productID string) bool {
	w.mx.Lock()
	defer w.mx.Unlock()

	if i := slices.Index(w.ids, productID); i >= 0 {
		w.ids = slices.Delete(w.ids, i, i+1)
		return false
	}
	w.ids = append(w.ids, productID)
	return true
}

func (w *Wishlist) Remove(productID string) {
	w.mx.Lock()
	defer w.mx.Unlock()
	w.ids = slices.DeleteFunc(w.ids, func(id string) bool { return id == productID })
}

func (w *Wishlist) Contains(productID string) bool {
	w.mx.Lock()
	defer w.mx.Unlock()
	return slices.Contains(w.ids, productID)
}

func (w *Wishlist) IDs() []string {
	w.mx.Lock()
	defer w.mx.Unlock()
	return slices.Clone(w.ids)
}

// ShareIDs is the comma-joined id list used in shared wishlist links.
func (w *Wishlist) ShareIDs() string {
	return strings.Join(w.IDs(), ",")
}

// ResolveShared turns a shared id list back into products, dropping ids the
// lookup does not know.
func ResolveShared(ids string, lookup func(id string) (models.Product, bool)) []models.Product {
	out := []models.Product{}
	if strings.TrimSpace(ids) == "" {
		return out
	}
	for _, id := range strings.Split(ids, ",") {
		if p, ok := lookup(strings.TrimSpace(id)); ok {
			out = append(out, p)
		}
	}
	return out
}
