// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	cartdom "botparts/internal/domain/cart"
	orderdom "botparts/internal/domain/order"
)

var (
	ErrCheckoutInvalidArgument = errors.New("checkout_usecase: invalid argument")
	ErrCheckoutEmptyCart       = errors.New("checkout_usecase: cart is empty")
)

// DefaultProcessingDelay stands in for a payment gateway round trip.
// There is no real gateway integration; checkout is simulated end to end.
const DefaultProcessingDelay = 2 * time.Second

// EmailClient is the outbound mail port (SendGrid in production).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// cartSource is the slice of CartSynchronizer checkout needs.
type cartSource interface {
	Current() cartdom.Cart
	ClearCart(ctx context.Context) error
}

// CheckoutUsecase turns the current derived cart into a placed order:
// simulated payment wait, order document write, cart consume, then
// best-effort confirmation email and archive mirror.
type CheckoutUsecase struct {
	orders  orderdom.Repository
	archive orderdom.Archive // optional
	mail    EmailClient      // optional

	mailFrom        string
	processingDelay time.Duration
	clock           Clock
	newID           func() string
}

func NewCheckoutUsecase(orders orderdom.Repository) *CheckoutUsecase {
	return &CheckoutUsecase{
		orders:          orders,
		processingDelay: DefaultProcessingDelay,
		clock:           systemClock{},
		newID:           uuid.NewString,
	}
}

// WithArchive attaches the optional Postgres order archive.
func (uc *CheckoutUsecase) WithArchive(a orderdom.Archive) *CheckoutUsecase {
	uc.archive = a
	return uc
}

// WithMail attaches the optional confirmation mail client.
func (uc *CheckoutUsecase) WithMail(m EmailClient, from string) *CheckoutUsecase {
	uc.mail = m
	uc.mailFrom = strings.TrimSpace(from)
	return uc
}

// WithProcessingDelay overrides the simulated payment delay (tests use 0).
func (uc *CheckoutUsecase) WithProcessingDelay(d time.Duration) *CheckoutUsecase {
	if d >= 0 {
		uc.processingDelay = d
	}
	return uc
}

// WithClock is useful for tests.
func (uc *CheckoutUsecase) WithClock(c Clock) *CheckoutUsecase {
	if c != nil {
		uc.clock = c
	}
	return uc
}

// PlaceOrder places an order from the user's current derived cart.
// The cart must be non-empty; line prices are frozen from the resolved
// product snapshots at this moment.
func (uc *CheckoutUsecase) PlaceOrder(
	ctx context.Context,
	cart cartSource,
	uid string,
	shipping orderdom.ShippingInfo,
	paymentMethod string,
) (*orderdom.Order, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" || cart == nil {
		return nil, ErrCheckoutInvalidArgument
	}
	if err := shipping.Validate(); err != nil {
		return nil, ErrCheckoutInvalidArgument
	}

	current := cart.Current()
	if len(current.Items) == 0 {
		return nil, ErrCheckoutEmptyCart
	}

	lines := make([]orderdom.Line, 0, len(current.Items))
	for _, it := range current.Items {
		lines = append(lines, orderdom.Line{
			ProductID: it.ProductID,
			Title:     it.Product.Title,
			UnitPrice: it.Product.Price,
			Quantity:  it.Quantity,
		})
	}

	// simulated payment processing
	if uc.processingDelay > 0 {
		select {
		case <-time.After(uc.processingDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	o, err := orderdom.NewOrder(uc.newID(), uid, lines, shipping, paymentMethod, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	// consume the cart; the order is already placed, so a failure here is
	// logged and the subscription snapshot reconciles the stale cart later
	if err := cart.ClearCart(ctx); err != nil {
		log.Printf("[checkout_usecase] cart clear failed orderId=%s uid=%s: %v", o.ID, uid, err)
	}

	if uc.mail != nil && strings.TrimSpace(shipping.Email) != "" {
		if err := uc.mail.Send(ctx, uc.mailFrom, shipping.Email,
			fmt.Sprintf("Order %s confirmed", o.ID),
			confirmationBody(o),
		); err != nil {
			log.Printf("[checkout_usecase] confirmation mail failed orderId=%s: %v", o.ID, err)
		}
	}

	if uc.archive != nil {
		if err := uc.archive.ArchiveOrder(ctx, o); err != nil {
			log.Printf("[checkout_usecase] archive failed orderId=%s: %v", o.ID, err)
		}
	}

	return o, nil
}

// ListOrders returns the user's orders, newest first.
func (uc *CheckoutUsecase) ListOrders(ctx context.Context, uid string) ([]orderdom.Order, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrCheckoutInvalidArgument
	}
	return uc.orders.ListByUserID(ctx, uid)
}

func confirmationBody(o *orderdom.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your purchase, %s!\n\n", o.Shipping.FullName)
	fmt.Fprintf(&b, "Order %s\n", o.ID)
	for _, l := range o.Lines {
		fmt.Fprintf(&b, "  %dx %s = %d\n", l.Quantity, l.Title, l.UnitPrice*int64(l.Quantity))
	}
	fmt.Fprintf(&b, "\nTotal: %d (%d items)\n", o.TotalPrice, o.TotalItems)
	fmt.Fprintf(&b, "Shipping to: %s, %s %s\n", o.Shipping.Address, o.Shipping.City, o.Shipping.ZipCode)
	return b.String()
}
