// Package services wires rendering, extraction and persistence into the
// add-invoice operation.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"evn/internal/core"
	"evn/internal/invoice"
)

// Renderer turns an invoice document into plain text.
type Renderer interface {
	Render(ctx context.Context, path string) (string, error)
}

// PeriodStore persists one extracted billing period.
type PeriodStore interface {
	SavePeriod(ctx context.Context, period core.BillingPeriod) error
}

// Notifier announces a freshly registered billing period.
type Notifier interface {
	PublishPeriodRegistered(ctx context.Context, period core.BillingPeriod) error
}

type InvoiceService struct {
	renderer Renderer
	store    PeriodStore
	notifier Notifier // optional
}

// NewInvoiceService creates the add-invoice pipeline. notifier may be
// nil when no broker is configured.
func NewInvoiceService(renderer Renderer, store PeriodStore, notifier Notifier) *InvoiceService {
	return &InvoiceService{
		renderer: renderer,
		store:    store,
		notifier: notifier,
	}
}

// AddInvoice renders the document, extracts the billing period and
// persists it. Warnings list the categories without any matched lines;
// they accompany a successful result and never abort it. Any returned
// error means nothing was persisted, except the post-commit notify step,
// whose failure is only logged.
func (s *InvoiceService) AddInvoice(ctx context.Context, path string) (core.BillingPeriod, []invoice.Warning, error) {
	text, err := s.renderer.Render(ctx, path)
	if err != nil {
		return core.BillingPeriod{}, nil, fmt.Errorf("render invoice: %w", err)
	}

	period, warnings, err := invoice.Extract(text)
	if err != nil {
		return core.BillingPeriod{}, nil, fmt.Errorf("extract invoice: %w", err)
	}

	if err := s.store.SavePeriod(ctx, period); err != nil {
		return core.BillingPeriod{}, nil, err
	}

	if s.notifier != nil {
		// the period is committed; a broker failure must not undo the add
		if err := s.notifier.PublishPeriodRegistered(ctx, period); err != nil {
			slog.WarnContext(ctx, "Failed to publish period notification",
				"date", period.Date.String(),
				"error", err)
		}
	}

	slog.InfoContext(ctx, "Invoice added",
		"path", path,
		"date", period.Date.String(),
		"absent_categories", len(warnings))
	return period, warnings, nil
}
