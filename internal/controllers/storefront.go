package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/catalog"
	"github.com/drstein77/storefront/internal/checkout"
	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/storage"
)

// productDetail is the product page: the product, its derived figures and
// what to show next to it.
type productDetail struct {
	models.Product
	AverageRating   float64             `json:"averageRating"`
	StockStatus     catalog.StockStatus `json:"stockStatus"`
	InWishlist      bool                `json:"inWishlist"`
	Recommendations []models.Product    `json:"recommendations"`
}

func (h *BaseController) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.storage.GetAllProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if c := models.Category(r.URL.Query().Get("category")); c != "" {
		if !c.Valid() {
			writeMessage(w, http.StatusNotFound, "Category not found.")
			return
		}
		products = catalog.FilterByCategory(products, c)
	}
	writeJSON(w, http.StatusOK, catalog.Sort(products, catalog.ParseSortOption(r.URL.Query().Get("sort"))))
}

func (h *BaseController) searchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.storage.GetAllProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.Search(products, r.URL.Query().Get("q")))
}

func (h *BaseController) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.storage.ProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	all, err := h.storage.GetAllProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, productDetail{
		Product:         p,
		AverageRating:   catalog.AverageRating(p),
		StockStatus:     catalog.StatusOf(p.Stock),
		InWishlist:      h.carts.Wished(session(r).ID, p.ID),
		Recommendations: catalog.Recommend(all, p, nil),
	})
}

func (h *BaseController) postReview(w http.ResponseWriter, r *http.Request) {
	var form catalog.ReviewForm
	if err := decodeJSON(r, &form); err != nil {
		h.badRequest(w, err)
		return
	}
	review, err := form.Review()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	review, err = h.storage.AddReview(r.Context(), chi.URLParam(r, "id"), review)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

type cartView struct {
	Items []models.CartItem `json:"items"`
	Count int               `json:"count"`
	Total float64           `json:"total"`
}

func viewOf(c *cart.Cart) cartView {
	return cartView{Items: c.Items(), Count: c.Count(), Total: c.Total()}
}

func (h *BaseController) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(h.carts.Cart(session(r).ID)))
}

func (h *BaseController) clearCart(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Cart(session(r).ID)
	c.Clear()
	writeJSON(w, http.StatusOK, viewOf(c))
}

type cartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *BaseController) addCartItem(w http.ResponseWriter, r *http.Request) {
	line := cartLine{Quantity: 1}
	if err := decodeJSON(r, &line); err != nil {
		h.badRequest(w, err)
		return
	}
	p, err := h.storage.ProductByID(r.Context(), line.ProductID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	c := h.carts.Cart(session(r).ID)
	if err := c.Add(p, line.Quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			writeMessage(w, http.StatusBadRequest, "Quantity must be at least 1.")
			return
		}
		h.writeError(w, r, err)
		return
	}
	h.toasts.Show(session(r).ID, fmt.Sprintf("%s added to cart!", p.Name), models.ToastSuccess)
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *BaseController) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var line cartLine
	if err := decodeJSON(r, &line); err != nil {
		h.badRequest(w, err)
		return
	}
	c := h.carts.Cart(session(r).ID)
	if !c.UpdateQuantity(chi.URLParam(r, "id"), line.Quantity) {
		h.writeError(w, r, storage.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *BaseController) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Cart(session(r).ID)
	c.Remove(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, viewOf(c))
}

// resolve maps wishlist ids to products still in the catalog.
func (h *BaseController) resolve(r *http.Request, ids string) ([]models.Product, error) {
	all, err := h.storage.GetAllProducts(r.Context())
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}
	return cart.ResolveShared(ids, func(id string) (models.Product, bool) {
		p, ok := byID[id]
		return p, ok
	}), nil
}

func (h *BaseController) getWishlist(w http.ResponseWriter, r *http.Request) {
	products, err := h.resolve(r, h.carts.Wishlist(session(r).ID).ShareIDs())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *BaseController) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	p, err := h.storage.ProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in := h.carts.Wishlist(session(r).ID).Toggle(p.ID)
	writeJSON(w, http.StatusOK, map[string]bool{"inWishlist": in})
}

func (h *BaseController) shareWishlist(w http.ResponseWriter, r *http.Request) {
	ids := h.carts.Wishlist(session(r).ID).ShareIDs()
	writeJSON(w, http.StatusOK, map[string]string{
		"ids":  ids,
		"path": "/api/v1/wishlist/shared?ids=" + url.QueryEscape(ids),
	})
}

func (h *BaseController) sharedWishlist(w http.ResponseWriter, r *http.Request) {
	products, err := h.resolve(r, r.URL.Query().Get("ids"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *BaseController) getCheckout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, checkout.Summarize(h.carts.Cart(session(r).ID).Items()))
}

func (h *BaseController) postCheckout(w http.ResponseWriter, r *http.Request) {
	var form checkout.GuestForm
	if err := decodeJSON(r, &form); err != nil {
		h.badRequest(w, err)
		return
	}

	conf, err := checkout.PlaceOrder(r.Context(), h.storage, h.carts.Cart(session(r).ID), form)
	if errors.Is(err, checkout.ErrEmptyCart) {
		writeMessage(w, http.StatusConflict, "Your cart is empty.")
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}

func (h *BaseController) getOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.storage.Orders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *BaseController) getToasts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.toasts.List(session(r).ID))
}

func (h *BaseController) dismissToast(w http.ResponseWriter, r *http.Request) {
	if !h.toasts.Remove(session(r).ID, chi.URLParam(r, "id")) {
		h.writeError(w, r, storage.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
