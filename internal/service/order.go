package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"kal-storefront/internal/checkout"
	"kal-storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrSubmissionInProgress = errors.New("an order submission is already in progress for this session")

// ValidationError carries the full validation result of a rejected checkout.
type ValidationError struct {
	Result checkout.Result
}

func (e *ValidationError) Error() string {
	return e.Result.Err().Error()
}

func (e *ValidationError) Unwrap() error {
	return errors.Cause(e.Result.Err())
}

// Preview is the live view of a checkout form before submission.
type Preview struct {
	checkout.Totals
	ItemCount int                 `json:"item_count"`
	Valid     bool                `json:"valid"`
	Result    checkout.Result     `json:"validation"`
	ChangeDue decimal.NullDecimal `json:"change_due"`
	Message   string              `json:"message,omitempty"`
}

// Receipt is returned to the customer once an order is placed.
type Receipt struct {
	Order          *domain.Order `json:"order"`
	HandoffMessage string        `json:"handoff_message"`
	HandoffURL     string        `json:"handoff_url"`
	QRLink         string        `json:"qr_link"`
}

type OrderServiceConfig struct {
	Orders    OrderRepository
	Carts     CartRepository
	Settings  SettingsRepository
	Notifier  Notifier
	Tasks     TaskRunner
	Publisher EventPublisher
	QR        QRGenerator

	// Locks must be the same set the CartService uses.
	Locks *SessionLocks
	NewID func() string
}

type OrderService struct {
	orders    OrderRepository
	carts     CartRepository
	settings  SettingsRepository
	notifier  Notifier
	tasks     TaskRunner
	publisher EventPublisher
	qrEncoder QRGenerator
	locks     *SessionLocks

	newID func() string
	now   func() time.Time

	mu         sync.Mutex
	submitting map[string]struct{}
	statusMu   sync.Mutex
}

func NewOrderService(cfg OrderServiceConfig) *OrderService {
	if cfg.Locks == nil {
		cfg.Locks = NewSessionLocks()
	}
	if cfg.NewID == nil {
		cfg.NewID = NewOrderID
	}
	return &OrderService{
		orders:     cfg.Orders,
		carts:      cfg.Carts,
		settings:   cfg.Settings,
		notifier:   cfg.Notifier,
		tasks:      cfg.Tasks,
		publisher:  cfg.Publisher,
		qrEncoder:  cfg.QR,
		locks:      cfg.Locks,
		newID:      cfg.NewID,
		now:        time.Now,
		submitting: map[string]struct{}{},
	}
}

// NewOrderID returns a short upper-case identifier suitable for reading aloud.
func NewOrderID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *OrderService) Preview(ctx context.Context, sessionID string, details domain.OrderDetails) (*Preview, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	cart, err := s.carts.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load settings")
	}

	totals := checkout.Quote(cart.Subtotal(), details.DeliveryMethod, settings.DeliveryFee)
	result := checkout.Validate(details, totals.Total, !cart.IsEmpty())
	preview := &Preview{
		Totals:    totals,
		ItemCount: cart.Count(),
		Valid:     result.Valid(),
		Result:    result,
		Message:   result.BlockingMessage(),
	}
	if details.PaymentMethod.AcceptsChange() && details.NeedChange {
		if change, err := checkout.ChangeDue(details.ChangeFor, totals.Total); err == nil {
			preview.ChangeDue = decimal.NewNullDecimal(change)
		}
	}
	return preview, nil
}

// Checkout validates the session cart against details and places the order.
// Only one submission per session may be in flight.
func (s *OrderService) Checkout(ctx context.Context, sessionID string, details domain.OrderDetails) (*Receipt, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	if !s.beginSubmit(sessionID) {
		return nil, ErrSubmissionInProgress
	}
	defer s.endSubmit(sessionID)

	order, settings, err := s.place(ctx, sessionID, details)
	if err != nil {
		return nil, err
	}

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err == nil {
			_ = s.orders.SaveQRCode(ctx, order.ID, qr)
		}
	}

	s.notify(settings.WebhookURL, order)
	s.publish(order.Event(domain.EventOrderPlaced, "", order.CreatedAt))

	message := checkout.HandoffMessage(order)
	log.WithFields(log.Fields{"order_id": order.ID, "total": order.Total.StringFixed(2)}).Info("order placed")
	return &Receipt{
		Order:          order,
		HandoffMessage: message,
		HandoffURL:     checkout.HandoffLink(settings.ContactNumber, message),
		QRLink:         s.QRLink(order.ID),
	}, nil
}

// place validates and stores the order, then clears the cart, all while
// holding the session lock so no cart edit lands in between.
func (s *OrderService) place(ctx context.Context, sessionID string, details domain.OrderDetails) (*domain.Order, domain.StoreSettings, error) {
	defer s.locks.Lock(sessionID)()

	cart, err := s.carts.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, domain.StoreSettings{}, errors.Wrap(err, "load cart")
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, settings, errors.Wrap(err, "load settings")
	}

	totals := checkout.Quote(cart.Subtotal(), details.DeliveryMethod, settings.DeliveryFee)
	if result := checkout.Validate(details, totals.Total, !cart.IsEmpty()); !result.Valid() {
		return nil, settings, &ValidationError{Result: result}
	}

	order, err := domain.NewOrder(s.newID(), sessionID, details, cart.Snapshot(), settings.DeliveryFee, s.now())
	if err != nil {
		return nil, settings, err
	}
	err = s.orders.CreateOrder(ctx, order)
	if errors.Is(err, domain.ErrDuplicateOrder) {
		log.WithField("order_id", order.ID).Warn("order id already taken, retrying with a fresh id")
		order.ID = s.newID()
		err = s.orders.CreateOrder(ctx, order)
	}
	if err != nil {
		return nil, settings, errors.Wrap(err, "create order")
	}

	if err := s.carts.DeleteCart(ctx, sessionID); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Warn("failed to clear cart after checkout")
	}
	return order, settings, nil
}

// Transition moves an order along the status lifecycle.
func (s *OrderService) Transition(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	if err := order.Transition(status, s.now()); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateOrderStatus(ctx, id, previous, order.Status, order.UpdatedAt); err != nil {
		return nil, err
	}

	s.publish(order.Event(domain.EventOrderStatusChanged, previous, order.UpdatedAt))
	log.WithFields(log.Fields{"order_id": id, "from": previous, "to": order.Status}).Info("order status changed")
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

// Current returns the most recent order placed by the session.
func (s *OrderService) Current(ctx context.Context, sessionID string) (*domain.Order, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	return s.orders.LatestOrderForSession(ctx, sessionID)
}

func (s *OrderService) QRCode(ctx context.Context, id string) ([]byte, error) {
	qr, err := s.orders.GetQRCode(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		if regenerated, err := s.qrEncoder.Generate(id); err == nil {
			_ = s.orders.SaveQRCode(ctx, id, regenerated)
			return regenerated, nil
		}
	}
	return qr, nil
}

func (s *OrderService) QRLink(id string) string {
	return "/api/orders/" + id + "/qrcode"
}

func (s *OrderService) notify(webhookURL string, order *domain.Order) {
	entry := log.WithField("order_id", order.ID)
	if strings.TrimSpace(webhookURL) == "" {
		entry.Info("no webhook configured, skipping order notification")
		return
	}
	if s.notifier == nil || s.tasks == nil {
		return
	}
	placed := *order
	if !s.tasks.Submit(Task{
		Name: "order-webhook",
		Run: func(ctx context.Context) error {
			return s.notifier.NotifyOrder(ctx, webhookURL, &placed)
		},
	}) {
		entry.Warn("order notification not queued")
	}
}

func (s *OrderService) publish(event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if s.tasks == nil {
		_ = s.publisher.PublishOrderEvent(context.Background(), event)
		return
	}
	s.tasks.Submit(Task{
		Name: "order-event",
		Run: func(ctx context.Context) error {
			return s.publisher.PublishOrderEvent(ctx, event)
		},
	})
}

func (s *OrderService) beginSubmit(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.submitting[sessionID]; busy {
		return false
	}
	s.submitting[sessionID] = struct{}{}
	return true
}

func (s *OrderService) endSubmit(sessionID string) {
	s.mu.Lock()
	delete(s.submitting, sessionID)
	s.mu.Unlock()
}

var _ OrderServiceInterface = (*OrderService)(nil)
