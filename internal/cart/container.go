package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/event"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/repository"
	apperrors "github.com/rossel-mx/rossel-ecommerce-sub000/pkg/errors"
)

// Notifier publishes the advisory toast event emitted by AddItem. It is
// satisfied by *event.Producer.
type Notifier interface {
	PublishCartItemAdded(ctx context.Context, data event.CartItemAddedData) error
}

// AddItemInput holds the parameters for adding a variant to the cart.
// Display copies and both price points are captured here, at add-time.
type AddItemInput struct {
	VariantID          string   `json:"variant_id" validate:"required"`
	ProductID          string   `json:"product_id" validate:"required"`
	Name               string   `json:"name" validate:"required"`
	Color              string   `json:"color"`
	Description        string   `json:"description"`
	SKU                string   `json:"sku"`
	UnitPriceRetail    int64    `json:"unit_price_retail" validate:"gte=0"`
	UnitPriceWholesale int64    `json:"unit_price_wholesale" validate:"gte=0"`
	ImageURLs          []string `json:"image_urls"`
	StockAtAdd         int      `json:"stock_at_add"`
}

// Container holds the authoritative in-memory cart for whoever is currently
// bound to it, and keeps it durably persisted per identity. This is the only
// place where tiered pricing and cart/identity isolation are enforced; a
// wrong implementation here silently corrupts money calculations or leaks
// one customer's basket into another's session.
//
// All operations are serialized by the container mutex, so a mutation can
// never interleave with an in-flight identity change and land in the
// previous user's storage slot.
type Container struct {
	store    repository.CartStore
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	userID   string
	resolved bool
	lines    []domain.CartLine
}

// NewContainer creates a cart container with no bound identity. The notifier
// may be nil, in which case the advisory add-item event is skipped.
func NewContainer(store repository.CartStore, notifier Notifier, logger *slog.Logger) *Container {
	return &Container{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// BindIdentity makes userID the current identity and loads its persisted
// cart. Rebinding the same identity is a no-op. A missing or corrupt stored
// value degrades to an empty cart, never an error: basket loss is
// recoverable, blocking login on it is not.
func (c *Container) BindIdentity(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved && c.userID == userID {
		return nil
	}

	lines, err := c.store.Get(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		lines = nil
	default:
		c.logger.WarnContext(ctx, "cart load failed, starting empty",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		lines = nil
	}

	c.userID = userID
	c.resolved = true
	c.lines = lines
	return nil
}

// Unbind clears the bound identity and the in-memory lines. The persisted
// cart is left untouched; it reloads the next time the same identity binds.
func (c *Container) Unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.userID = ""
	c.resolved = false
	c.lines = nil
}

// AddItem adds quantity units of a variant. If a line with the same variant
// ID exists its quantity is incremented; otherwise a new line is appended.
// Returns the resulting line.
func (c *Container) AddItem(ctx context.Context, input AddItemInput, quantity int) (domain.CartLine, error) {
	if input.VariantID == "" {
		return domain.CartLine{}, apperrors.InvalidInput("variant id is required")
	}
	if quantity < 1 {
		return domain.CartLine{}, apperrors.InvalidInput("quantity must be at least 1")
	}
	if input.UnitPriceRetail < 0 || input.UnitPriceWholesale < 0 {
		return domain.CartLine{}, apperrors.InvalidInput("prices must not be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.resolved {
		return domain.CartLine{}, apperrors.Unauthorized("no identity bound to cart")
	}

	var line domain.CartLine
	if idx := domain.FindLineIndex(c.lines, input.VariantID); idx >= 0 {
		c.lines[idx].Quantity += quantity
		line = c.lines[idx]
	} else {
		line = domain.CartLine{
			VariantID:          input.VariantID,
			ProductID:          input.ProductID,
			Name:               input.Name,
			Color:              input.Color,
			Description:        input.Description,
			SKU:                input.SKU,
			UnitPriceRetail:    input.UnitPriceRetail,
			UnitPriceWholesale: input.UnitPriceWholesale,
			ImageURLs:          input.ImageURLs,
			StockAtAdd:         input.StockAtAdd,
			Quantity:           quantity,
		}
		c.lines = append(c.lines, line)
	}

	c.persist(ctx)
	c.notifyItemAdded(ctx, line, quantity)

	return line, nil
}

// RemoveItem deletes the line with the given variant ID. A missing line is a
// no-op, not an error.
func (c *Container) RemoveItem(ctx context.Context, variantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.resolved {
		return apperrors.Unauthorized("no identity bound to cart")
	}

	idx := domain.FindLineIndex(c.lines, variantID)
	if idx < 0 {
		return nil
	}

	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	c.persist(ctx)
	return nil
}

// SetQuantity overwrites the quantity of an existing line. A quantity of
// zero or less removes the line. Setting a quantity on a variant that was
// never added is silently ignored.
func (c *Container) SetQuantity(ctx context.Context, variantID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.resolved {
		return apperrors.Unauthorized("no identity bound to cart")
	}

	idx := domain.FindLineIndex(c.lines, variantID)

	if quantity <= 0 {
		if idx < 0 {
			return nil
		}
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
		c.persist(ctx)
		return nil
	}

	if idx < 0 {
		// Cannot set a line that was never added.
		return nil
	}

	c.lines[idx].Quantity = quantity
	c.persist(ctx)
	return nil
}

// Clear empties the cart and persists the empty collection. The storage key
// is overwritten, not deleted, so a later reload sees empty rather than
// stale lines.
func (c *Container) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.resolved {
		return apperrors.Unauthorized("no identity bound to cart")
	}

	c.lines = nil
	c.persist(ctx)
	return nil
}

// ReplaceLines swaps the whole line collection, used by checkout validation
// to apply the server-adjusted set. Lines with non-positive quantities are
// dropped; duplicate variant IDs are merged to keep the uniqueness invariant.
func (c *Container) ReplaceLines(ctx context.Context, lines []domain.CartLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.resolved {
		return apperrors.Unauthorized("no identity bound to cart")
	}

	normalized := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if idx := domain.FindLineIndex(normalized, l.VariantID); idx >= 0 {
			normalized[idx].Quantity += l.Quantity
			continue
		}
		normalized = append(normalized, l)
	}

	if len(normalized) == 0 {
		normalized = nil
	}
	c.lines = normalized
	c.persist(ctx)
	return nil
}

// Lines returns a copy of the current lines.
func (c *Container) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total returns the cart total in cents using per-line tiered pricing.
func (c *Container) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CartTotal(c.lines)
}

// UserID returns the currently bound identity, or "" when unbound.
func (c *Container) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// persist rewrites the full line collection under the bound identity's key.
// Write failures are logged and swallowed: the container keeps operating on
// the in-memory state for the rest of the session. Callers must hold c.mu.
func (c *Container) persist(ctx context.Context) {
	if err := c.store.Save(ctx, c.userID, c.lines); err != nil {
		c.logger.WarnContext(ctx, "cart persist failed, continuing in memory",
			slog.String("user_id", c.userID),
			slog.String("error", err.Error()),
		)
	}
}

// notifyItemAdded emits the advisory toast event. Callers must hold c.mu.
func (c *Container) notifyItemAdded(ctx context.Context, line domain.CartLine, quantityAdded int) {
	if c.notifier == nil {
		return
	}

	data := event.CartItemAddedData{
		UserID:        c.userID,
		VariantID:     line.VariantID,
		Name:          line.Name,
		Color:         line.Color,
		QuantityAdded: quantityAdded,
	}
	if err := c.notifier.PublishCartItemAdded(ctx, data); err != nil {
		c.logger.WarnContext(ctx, "cart.item_added publish failed",
			slog.String("user_id", c.userID),
			slog.String("error", fmt.Sprintf("%v", err)),
		)
	}
}
