package services

import (
	"context"
	"errors"
	"testing"

	"evn/internal/core"
	"evn/internal/invoice"
	"evn/internal/storage"
)

type stubRenderer struct {
	text string
	err  error
}

func (r *stubRenderer) Render(ctx context.Context, path string) (string, error) {
	return r.text, r.err
}

type stubStore struct {
	saved []core.BillingPeriod
	err   error
}

func (s *stubStore) SavePeriod(ctx context.Context, period core.BillingPeriod) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, period)
	return nil
}

type stubNotifier struct {
	published []core.BillingPeriod
	err       error
}

func (n *stubNotifier) PublishPeriodRegistered(ctx context.Context, period core.BillingPeriod) error {
	if n.err != nil {
		return n.err
	}
	n.published = append(n.published, period)
	return nil
}

const renderedInvoice = "Rechnungsdatum: 15.03.2011\n" +
	"01.03.11  08:12:44  NA  030123456  DTAG  1:00  0,0756\n"

func TestAddInvoice(t *testing.T) {
	store := &stubStore{}
	notifier := &stubNotifier{}
	svc := NewInvoiceService(&stubRenderer{text: renderedInvoice}, store, notifier)

	period, warnings, err := svc.AddInvoice(context.Background(), "invoice.pdf")
	if err != nil {
		t.Fatalf("AddInvoice: %v", err)
	}
	if period.Date.String() != "2011-03-15" {
		t.Fatalf("date = %s, want 2011-03-15", period.Date)
	}
	if len(warnings) != 4 {
		t.Fatalf("warnings = %v, want 4 absent categories", warnings)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d periods, want 1", len(store.saved))
	}
	if len(notifier.published) != 1 {
		t.Fatalf("published %d notifications, want 1", len(notifier.published))
	}
}

func TestAddInvoiceWithoutNotifier(t *testing.T) {
	store := &stubStore{}
	svc := NewInvoiceService(&stubRenderer{text: renderedInvoice}, store, nil)
	if _, _, err := svc.AddInvoice(context.Background(), "invoice.pdf"); err != nil {
		t.Fatalf("AddInvoice: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d periods, want 1", len(store.saved))
	}
}

func TestAddInvoiceRenderFailure(t *testing.T) {
	store := &stubStore{}
	svc := NewInvoiceService(&stubRenderer{err: errors.New("damaged stream")}, store, nil)
	_, _, err := svc.AddInvoice(context.Background(), "invoice.pdf")
	if err == nil {
		t.Fatalf("expected render error")
	}
	if len(store.saved) != 0 {
		t.Fatalf("nothing may be saved on render failure")
	}
}

func TestAddInvoiceMissingDateIsFatal(t *testing.T) {
	store := &stubStore{}
	svc := NewInvoiceService(&stubRenderer{text: "no date line\n"}, store, nil)
	_, _, err := svc.AddInvoice(context.Background(), "invoice.pdf")
	if !errors.Is(err, invoice.ErrNoInvoiceDate) {
		t.Fatalf("expected ErrNoInvoiceDate, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("nothing may be saved without an invoice date")
	}
}

func TestAddInvoiceDuplicatePeriod(t *testing.T) {
	notifier := &stubNotifier{}
	svc := NewInvoiceService(&stubRenderer{text: renderedInvoice},
		&stubStore{err: storage.ErrPeriodExists}, notifier)
	_, _, err := svc.AddInvoice(context.Background(), "invoice.pdf")
	if !errors.Is(err, storage.ErrPeriodExists) {
		t.Fatalf("expected ErrPeriodExists, got %v", err)
	}
	if len(notifier.published) != 0 {
		t.Fatalf("no notification may be published for a rejected period")
	}
}

func TestAddInvoiceNotifyFailureIsNotFatal(t *testing.T) {
	store := &stubStore{}
	svc := NewInvoiceService(&stubRenderer{text: renderedInvoice}, store,
		&stubNotifier{err: errors.New("broker down")})
	if _, _, err := svc.AddInvoice(context.Background(), "invoice.pdf"); err != nil {
		t.Fatalf("notify failure must not fail the add, got %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("period must stay saved despite notify failure")
	}
}
