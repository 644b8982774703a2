package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/nanoerp/nanoerp/internal/invoices"
	"github.com/nanoerp/nanoerp/internal/settings"
	"github.com/nanoerp/nanoerp/internal/shared"
)

const dateLayout = "2006-01-02"

// Service handles the payment workflows.
type Service struct {
	repo     Repository
	settings *settings.Store
	now      func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository, store *settings.Store) *Service {
	return &Service{repo: repo, settings: store, now: time.Now}
}

// AddPayment records a payment and recomputes the invoice status. Cancelled
// invoices are refused; the cancelled state is terminal.
func (s *Service) AddPayment(ctx context.Context, invoiceID int64, req AddPaymentRequest) (*Payment, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("payments: amount must be > 0: %w", shared.ErrValidation)
	}
	pos, err := s.repo.InvoicePosition(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if pos.Status == invoices.StatusCancelled {
		return nil, fmt.Errorf("payments: invoice is cancelled: %w", shared.ErrInvalidState)
	}

	p := Payment{
		InvoiceID:   invoiceID,
		Amount:      req.Amount,
		PaymentDate: s.dateOrToday(req.PaymentDate),
		Method:      s.methodOrDefault(ctx, req.Method),
		Notes:       req.Notes,
	}
	if _, err := s.repo.Add(ctx, &p); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, p.ID)
}

// MarkAsPaid settles the invoice with a single payment equal to its full
// total and sets the status to paid directly.
func (s *Service) MarkAsPaid(ctx context.Context, invoiceID int64, req MarkAsPaidRequest) (*Payment, error) {
	pos, err := s.repo.InvoicePosition(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if pos.Status == invoices.StatusCancelled {
		return nil, fmt.Errorf("payments: invoice is cancelled: %w", shared.ErrInvalidState)
	}
	if pos.Status == invoices.StatusPaid {
		return nil, fmt.Errorf("payments: invoice already paid: %w", shared.ErrInvalidState)
	}

	p := Payment{
		InvoiceID:   invoiceID,
		Amount:      pos.Total,
		PaymentDate: s.dateOrToday(req.PaymentDate),
		Method:      s.methodOrDefault(ctx, req.Method),
	}
	if err := s.repo.MarkPaid(ctx, &p); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, p.ID)
}

// Summary returns the invoice's payment position and history.
func (s *Service) Summary(ctx context.Context, invoiceID int64) (*Summary, error) {
	pos, err := s.repo.InvoicePosition(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	var paid float64
	for _, p := range list {
		paid += p.Amount
	}
	balance := pos.Total - paid
	return &Summary{
		Total:       pos.Total,
		Paid:        paid,
		Balance:     balance,
		IsFullyPaid: balance <= 0,
		Payments:    list,
	}, nil
}

// ListByInvoice returns the invoice's payments, oldest first.
func (s *Service) ListByInvoice(ctx context.Context, invoiceID int64) ([]Payment, error) {
	return s.repo.ListByInvoice(ctx, invoiceID)
}

// Update edits a recorded payment in place. The invoice status is not
// recomputed here; no boundary workflow reaches this operation.
func (s *Service) Update(ctx context.Context, id int64, req UpdatePaymentRequest) (*Payment, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Amount != nil {
		existing.Amount = *req.Amount
	}
	if req.PaymentDate != nil {
		existing.PaymentDate = *req.PaymentDate
	}
	if req.Method != nil {
		existing.Method = *req.Method
	}
	if req.Notes != nil {
		existing.Notes = *req.Notes
	}
	if existing.Amount <= 0 {
		return nil, fmt.Errorf("payments: amount must be > 0: %w", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) dateOrToday(date string) string {
	if date != "" {
		return date
	}
	return s.now().Format(dateLayout)
}

func (s *Service) methodOrDefault(ctx context.Context, method string) string {
	if method != "" {
		return method
	}
	return s.settings.Get(ctx, settings.KeyDefaultPaymentMethod, "Cash")
}
