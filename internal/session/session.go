package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/perfumery/cart/pkg/store"
	"github.com/Alturino/perfumery/order/pkg/checkout"
	orderRequest "github.com/Alturino/perfumery/order/pkg/request"
	orderResponse "github.com/Alturino/perfumery/order/pkg/response"
	productResponse "github.com/Alturino/perfumery/product/pkg/response"
)

// Session owns one cart and at most one open checkout workflow.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	newWorkflow func(s *Session) *checkout.Workflow

	mu       sync.Mutex
	cart     *store.Cart
	workflow *checkout.Workflow
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) Add(product productResponse.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Add(product)
}

func (s *Session) SetQuantity(productId string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.SetQuantity(productId, quantity)
}

func (s *Session) Remove(productId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(productId)
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

func (s *Session) Items() []store.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

func (s *Session) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Snapshot returns a copy of the cart taken under a single lock.
func (s *Session) Snapshot() *store.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Checkout returns the open workflow, starting a fresh one when the previous
// workflow was dismissed.
func (s *Session) Checkout() *checkout.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workflow == nil || s.workflow.Closed() {
		s.workflow = s.newWorkflow(s)
	}
	return s.workflow
}

// Submit runs the open workflow against a snapshot of this session's cart.
func (s *Session) Submit(c context.Context, draft orderRequest.OrderDraft) (orderResponse.Order, error) {
	return s.Checkout().Submit(c, draft, s.Snapshot())
}

func (s *Session) dropWorkflow(w *checkout.Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workflow == w {
		s.workflow = nil
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workflow != nil {
		s.workflow.Close()
		s.workflow = nil
	}
	s.cart.Clear()
}
