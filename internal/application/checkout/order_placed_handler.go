package checkout

import (
	"context"

	"go.uber.org/zap"

	"github.com/estore/backend/internal/domain/catalog"
	"github.com/estore/backend/internal/domain/order"
	"github.com/estore/backend/internal/domain/shared"
)

// Stock level at or below which an order triggers a warning
const lowStockThreshold = 3

// OrderPlacedHandler reacts to committed checkouts. It logs the order
// and warns when any purchased product is running low on stock.
type OrderPlacedHandler struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewOrderPlacedHandler creates a new OrderPlacedHandler
func NewOrderPlacedHandler(productRepo catalog.ProductRepository, logger *zap.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{
		productRepo: productRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle processes an OrderPlacedEvent
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		return nil
	}

	h.logger.Info("order placed",
		zap.String("order_number", placed.Number),
		zap.String("user_id", placed.UserID.String()),
		zap.String("total", placed.Total.String()),
		zap.Int("lines", len(placed.Lines)))

	for _, line := range placed.Lines {
		product, err := h.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			h.logger.Warn("could not check stock for ordered product",
				zap.String("product_id", line.ProductID.String()),
				zap.Error(err))
			continue
		}
		if product.Stock <= lowStockThreshold {
			h.logger.Warn("product stock is low",
				zap.String("product_id", product.ID.String()),
				zap.String("product_name", product.Name),
				zap.Int("stock", product.Stock))
		}
	}

	return nil
}

var _ shared.EventHandler = (*OrderPlacedHandler)(nil)
