package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	cartdom "botparts/internal/domain/cart"
	orderdom "botparts/internal/domain/order"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*orderdom.Order
}

func (f *fakeOrderRepo) Save(ctx context.Context, o *orderdom.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeOrderRepo) ListByUserID(ctx context.Context, userID string) ([]orderdom.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []orderdom.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

// fakeCheckoutCart is a stand-in cart source with a fixed derived value.
type fakeCheckoutCart struct {
	cart    cartdom.Cart
	cleared bool
}

func (f *fakeCheckoutCart) Current() cartdom.Cart { return f.cart }

func (f *fakeCheckoutCart) ClearCart(ctx context.Context) error {
	f.cleared = true
	f.cart = cartdom.Empty()
	return nil
}

type fakeMail struct {
	mu   sync.Mutex
	sent []string // "to|subject"
}

func (f *fakeMail) Send(ctx context.Context, from, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to+"|"+subject)
	return nil
}

type fakeArchive struct {
	mu       sync.Mutex
	archived []string
}

func (f *fakeArchive) ArchiveOrder(ctx context.Context, o *orderdom.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, o.ID)
	return nil
}

func validShipping() orderdom.ShippingInfo {
	return orderdom.ShippingInfo{
		FullName: "Ada Robotnik",
		Email:    "ada@example.com",
		Phone:    "555-0101",
		Address:  "1 Servo Way",
		City:     "Gearford",
		ZipCode:  "12345",
	}
}

func checkoutCartWith(items ...cartdom.LineItem) *fakeCheckoutCart {
	return &fakeCheckoutCart{cart: cartdom.Derive(items)}
}

func TestCheckoutPlaceOrder(t *testing.T) {
	repo := &fakeOrderRepo{}
	mailc := &fakeMail{}
	arch := &fakeArchive{}
	uc := NewCheckoutUsecase(repo).
		WithProcessingDelay(0).
		WithClock(fixedClock{t: testNow}).
		WithMail(mailc, "orders@botparts.example").
		WithArchive(arch)

	cart := checkoutCartWith(
		cartdom.LineItem{ProductID: "p1", Quantity: 2, Product: product("p1", 100, 10)},
		cartdom.LineItem{ProductID: "p2", Quantity: 1, Product: product("p2", 250, 10)},
	)

	o, err := uc.PlaceOrder(context.Background(), cart, "u1", validShipping(), "card")
	require.NoError(t, err)
	require.NotEmpty(t, o.ID)
	require.Equal(t, "u1", o.UserID)
	require.Equal(t, orderdom.StatusPlaced, o.Status)

	// line prices are frozen from the cart's product snapshots
	require.Equal(t, 3, o.TotalItems)
	require.Equal(t, int64(450), o.TotalPrice)
	require.Len(t, o.Lines, 2)
	require.Equal(t, int64(100), o.Lines[0].UnitPrice)

	require.True(t, cart.cleared, "successful checkout consumes the cart")
	require.Len(t, repo.orders, 1)
	require.Equal(t, []string{"ada@example.com|Order " + o.ID + " confirmed"}, mailc.sent)
	require.Equal(t, []string{o.ID}, arch.archived)
}

func TestCheckoutEmptyCart(t *testing.T) {
	uc := NewCheckoutUsecase(&fakeOrderRepo{}).WithProcessingDelay(0)

	_, err := uc.PlaceOrder(context.Background(), checkoutCartWith(), "u1", validShipping(), "card")
	require.ErrorIs(t, err, ErrCheckoutEmptyCart)
}

func TestCheckoutInvalidShipping(t *testing.T) {
	uc := NewCheckoutUsecase(&fakeOrderRepo{}).WithProcessingDelay(0)
	cart := checkoutCartWith(
		cartdom.LineItem{ProductID: "p1", Quantity: 1, Product: product("p1", 100, 10)},
	)

	bad := validShipping()
	bad.Address = ""
	_, err := uc.PlaceOrder(context.Background(), cart, "u1", bad, "card")
	require.ErrorIs(t, err, ErrCheckoutInvalidArgument)
	require.False(t, cart.cleared)
}

func TestCheckoutBlankUser(t *testing.T) {
	uc := NewCheckoutUsecase(&fakeOrderRepo{}).WithProcessingDelay(0)
	cart := checkoutCartWith(
		cartdom.LineItem{ProductID: "p1", Quantity: 1, Product: product("p1", 100, 10)},
	)

	_, err := uc.PlaceOrder(context.Background(), cart, "  ", validShipping(), "card")
	require.ErrorIs(t, err, ErrCheckoutInvalidArgument)
}

func TestCheckoutListOrders(t *testing.T) {
	repo := &fakeOrderRepo{}
	uc := NewCheckoutUsecase(repo).WithProcessingDelay(0).WithClock(fixedClock{t: testNow})

	cart := checkoutCartWith(
		cartdom.LineItem{ProductID: "p1", Quantity: 1, Product: product("p1", 100, 10)},
	)
	_, err := uc.PlaceOrder(context.Background(), cart, "u1", validShipping(), "card")
	require.NoError(t, err)

	orders, err := uc.ListOrders(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	other, err := uc.ListOrders(context.Background(), "u2")
	require.NoError(t, err)
	require.Empty(t, other)

	_, err = uc.ListOrders(context.Background(), " ")
	require.ErrorIs(t, err, ErrCheckoutInvalidArgument)
}
