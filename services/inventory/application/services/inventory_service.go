package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/stockledger/pkg/logger"
	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
	domainevents "github.com/ghuser/stockledger/services/inventory/domain/events"
	"github.com/ghuser/stockledger/services/inventory/domain/models"
	"github.com/ghuser/stockledger/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/stockledger/services/inventory/domain/services"
)

const instrumentationName = "github.com/ghuser/stockledger/services/inventory"

// ErrNotSaved accompanies a successful mutation whose write-through snapshot
// failed. The in-memory change stands; the caller should warn the operator.
var ErrNotSaved = errors.New("change applied but snapshot not saved")

// Publisher is the subset of the event bus the service needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// Options configures an InventoryService.
type Options struct {
	Limits            models.Limits
	LowStockThreshold int
	// Autosave writes the snapshot after every successful mutation.
	Autosave bool
	// TracerProvider and MeterProvider default to the otel globals.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Entry is a detached copy of a live item together with its current
// 1-based position.
type Entry struct {
	Position int
	Item     models.Item
}

// Adjustment describes a completed quantity update.
type Adjustment struct {
	Entry
	Previous int
}

// ListFilter narrows List. The zero value lists everything.
type ListFilter struct {
	// Query keeps items whose name contains it, ignoring case.
	Query string
	// LowStockOnly keeps items at or below the low-stock threshold.
	LowStockOnly bool
}

// InventoryService is the single entry point the presentation layer uses.
// It owns the Inventory and serializes every operation behind one mutex,
// publishes an audit event for each mutation attempt, and optionally writes
// the snapshot through after successful mutations.
type InventoryService struct {
	mu        sync.Mutex
	inv       *models.Inventory
	limits    models.Limits
	threshold int
	autosave  bool

	ids     *models.IDRegistry // every id issued or restored in the run
	factory *models.Factory

	repo repositories.SnapshotRepository // nil disables persistence
	bus  Publisher                       // nil disables auditing
	log  logger.Logger
	now  func() time.Time

	tracer    trace.Tracer
	mutations metric.Int64Counter
}

// NewInventoryService returns a service over an empty inventory.
func NewInventoryService(repo repositories.SnapshotRepository, bus Publisher, log logger.Logger, opts Options) (*InventoryService, error) {
	if opts.Limits.MaxQuantity <= 0 {
		opts.Limits = models.DefaultLimits()
	}
	if opts.LowStockThreshold < 0 {
		opts.LowStockThreshold = models.DefaultLowStockThreshold
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}
	if opts.MeterProvider == nil {
		opts.MeterProvider = otel.GetMeterProvider()
	}

	s := &InventoryService{
		limits:    opts.Limits,
		threshold: opts.LowStockThreshold,
		autosave:  opts.Autosave,
		repo:      repo,
		bus:       bus,
		log:       log,
		now:       time.Now,
		tracer:    opts.TracerProvider.Tracer(instrumentationName),
	}
	s.ids = models.NewIDRegistry()
	s.factory = models.NewFactory(s.limits, s.ids)
	s.inv = s.newInventory()

	if err := s.registerMetrics(opts.MeterProvider.Meter(instrumentationName)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *InventoryService) newInventory() *models.Inventory {
	return models.NewInventory(s.factory)
}

func (s *InventoryService) registerMetrics(meter metric.Meter) error {
	var err error
	s.mutations, err = meter.Int64Counter("inventory.mutations",
		metric.WithDescription("Mutation attempts by action and outcome"))
	if err != nil {
		return fmt.Errorf("inventory metrics: %w", err)
	}

	items, err := meter.Int64ObservableGauge("inventory.items", metric.WithDescription("Live items"))
	if err != nil {
		return fmt.Errorf("inventory metrics: %w", err)
	}
	units, err := meter.Int64ObservableGauge("inventory.units", metric.WithDescription("Total units in stock"))
	if err != nil {
		return fmt.Errorf("inventory metrics: %w", err)
	}
	lowStock, err := meter.Int64ObservableGauge("inventory.low_stock", metric.WithDescription("Items at or below the low-stock threshold"))
	if err != nil {
		return fmt.Errorf("inventory metrics: %w", err)
	}
	value, err := meter.Float64ObservableGauge("inventory.value", metric.WithDescription("Total stock value"))
	if err != nil {
		return fmt.Errorf("inventory metrics: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		o.ObserveInt64(items, int64(s.inv.Count()))
		o.ObserveInt64(units, int64(s.inv.TotalUnits()))
		o.ObserveInt64(lowStock, int64(s.inv.LowStockCount(s.threshold)))
		o.ObserveFloat64(value, s.inv.TotalValue().InexactFloat64())
		return nil
	}, items, units, lowStock, value)
	if err != nil {
		return fmt.Errorf("inventory metrics: %w", err)
	}
	return nil
}

// Limits returns the quantity bounds applied to every item.
func (s *InventoryService) Limits() models.Limits {
	return s.limits
}

// LowStockThreshold returns the quantity at or below which an item is low on stock.
func (s *InventoryService) LowStockThreshold() int {
	return s.threshold
}

// Add creates an item and appends it to the inventory.
func (s *InventoryService) Add(ctx context.Context, name string, quantity int, price decimal.Decimal) (Entry, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Add",
		trace.WithAttributes(attribute.String("item.name", name), attribute.Int("item.quantity", quantity)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	detail := fmt.Sprintf("name=%q quantity=%d price=%s", name, quantity, price.String())
	item, err := s.inv.Add(name, quantity, price)
	if err != nil {
		s.record(ctx, span, domainevents.ActionAdd, uuid.Nil, detail, err)
		return Entry{}, err
	}
	s.record(ctx, span, domainevents.ActionAdd, item.ID(), detail, nil)
	return s.entry(item), s.autosaveLocked(ctx)
}

// Find resolves term as a 1-based position or an exact, case-insensitive name.
func (s *InventoryService) Find(ctx context.Context, term string) (Entry, error) {
	_, span := s.tracer.Start(ctx, "InventoryService.Find", trace.WithAttributes(attribute.String("term", term)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.inv.Find(term)
	if err != nil {
		return Entry{}, spanError(span, err)
	}
	return s.entry(item), nil
}

// List returns the items matching filter in insertion order.
func (s *InventoryService) List(ctx context.Context, filter ListFilter) []Entry {
	_, span := s.tracer.Start(ctx, "InventoryService.List")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.inv.Items()
	if filter.Query != "" {
		items = s.inv.Search(filter.Query)
	}
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		if filter.LowStockOnly && !item.IsLowStock(s.threshold) {
			continue
		}
		out = append(out, s.entry(item))
	}
	span.SetAttributes(attribute.Int("result.count", len(out)))
	return out
}

// Adjust applies amount to the quantity of the item found by term. The
// stored quantity is unchanged when the result would leave the bounds.
func (s *InventoryService) Adjust(ctx context.Context, term string, mode domainsvcs.AdjustMode, amount int) (Adjustment, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Adjust",
		trace.WithAttributes(attribute.String("term", term), attribute.String("mode", string(mode)), attribute.Int("amount", amount)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.inv.Find(term)
	if err != nil {
		s.record(ctx, span, domainevents.ActionUpdateQuantity, uuid.Nil, fmt.Sprintf("term=%q mode=%s amount=%d", term, mode, amount), err)
		return Adjustment{}, err
	}
	return s.adjustLocked(ctx, span, item, mode, amount)
}

// AdjustByID is Adjust for an item already resolved by the caller.
func (s *InventoryService) AdjustByID(ctx context.Context, id uuid.UUID, mode domainsvcs.AdjustMode, amount int) (Adjustment, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.AdjustByID",
		trace.WithAttributes(attribute.String("item.id", id.String()), attribute.String("mode", string(mode)), attribute.Int("amount", amount)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.inv.FindByID(id)
	if err != nil {
		s.record(ctx, span, domainevents.ActionUpdateQuantity, id, fmt.Sprintf("id=%s mode=%s amount=%d", id, mode, amount), err)
		return Adjustment{}, err
	}
	return s.adjustLocked(ctx, span, item, mode, amount)
}

func (s *InventoryService) adjustLocked(ctx context.Context, span trace.Span, item *models.Item, mode domainsvcs.AdjustMode, amount int) (Adjustment, error) {
	previous := item.Quantity()
	detail := fmt.Sprintf("name=%q mode=%s amount=%d previous=%d", item.Name(), mode, amount, previous)
	next, err := domainsvcs.ResolveQuantity(previous, mode, amount, s.limits)
	if err == nil {
		err = s.inv.UpdateQuantity(item, next)
	}
	if err != nil {
		s.record(ctx, span, domainevents.ActionUpdateQuantity, item.ID(), detail, err)
		return Adjustment{}, err
	}

	s.record(ctx, span, domainevents.ActionUpdateQuantity, item.ID(), fmt.Sprintf("%s new=%d", detail, next), nil)
	return Adjustment{Entry: s.entry(item), Previous: previous}, s.autosaveLocked(ctx)
}

// UpdateQuantity sets the quantity of the item found by term.
func (s *InventoryService) UpdateQuantity(ctx context.Context, term string, quantity int) (Adjustment, error) {
	return s.Adjust(ctx, term, domainsvcs.AdjustSet, quantity)
}

// Remove deletes the item found by term and returns a copy of it.
func (s *InventoryService) Remove(ctx context.Context, term string) (models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Remove", trace.WithAttributes(attribute.String("term", term)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.inv.Find(term)
	if err != nil {
		s.record(ctx, span, domainevents.ActionRemove, uuid.Nil, fmt.Sprintf("term=%q", term), err)
		return models.Item{}, err
	}
	return s.removeLocked(ctx, span, item)
}

// RemoveByID deletes the item with id and returns a copy of it.
func (s *InventoryService) RemoveByID(ctx context.Context, id uuid.UUID) (models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.RemoveByID", trace.WithAttributes(attribute.String("item.id", id.String())))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.inv.FindByID(id)
	if err != nil {
		s.record(ctx, span, domainevents.ActionRemove, id, fmt.Sprintf("id=%s", id), err)
		return models.Item{}, err
	}
	return s.removeLocked(ctx, span, item)
}

func (s *InventoryService) removeLocked(ctx context.Context, span trace.Span, item *models.Item) (models.Item, error) {
	if err := s.inv.Remove(item); err != nil {
		s.record(ctx, span, domainevents.ActionRemove, item.ID(), fmt.Sprintf("name=%q", item.Name()), err)
		return models.Item{}, err
	}
	s.record(ctx, span, domainevents.ActionRemove, item.ID(), fmt.Sprintf("name=%q quantity=%d", item.Name(), item.Quantity()), nil)
	return *item, s.autosaveLocked(ctx)
}

// Stats returns every aggregate at once. Item pointers in the result are
// detached copies.
func (s *InventoryService) Stats(ctx context.Context) models.Stats {
	_, span := s.tracer.Start(ctx, "InventoryService.Stats")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.inv.Stats(s.threshold)
	st.MostExpensive = detach(st.MostExpensive)
	st.HighestTotalValue = detach(st.HighestTotalValue)
	st.LowestStock = detach(st.LowestStock)
	return st
}

// Report builds a report of the current inventory.
func (s *InventoryService) Report(ctx context.Context) *models.Report {
	_, span := s.tracer.Start(ctx, "InventoryService.Report")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return domainsvcs.GenerateReport(s.inv, s.threshold, s.now().UTC())
}

// Load replaces the inventory with the stored snapshot. Records are rebuilt
// through the same rules as Add; if any record fails, every failure is
// reported and the current inventory is kept. Only failed loads are audited.
func (s *InventoryService) Load(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Load")
	defer span.End()

	if s.repo == nil {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Load(ctx)
	if err != nil {
		s.record(ctx, span, domainevents.ActionLoadSnapshot, uuid.Nil, "read snapshot", err)
		return 0, fmt.Errorf("load snapshot: %w", err)
	}

	// Duplicate ids are checked within the snapshot only; a restored item may
	// carry an id issued earlier in this run.
	restored := models.NewIDRegistry()
	next := models.NewInventory(models.NewFactory(s.limits, restored))
	var errs []error
	for i, rec := range records {
		err := domainsvcs.ValidateRecord(rec)
		if err == nil {
			_, err = next.Restore(rec.ID, rec.Name, rec.Quantity, rec.UnitPrice, rec.DateAdded)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d (%q): %w", i+1, rec.Name, err))
		}
	}
	if len(errs) > 0 {
		err := fmt.Errorf("%w: %w", itemdomain.ErrCorruptSnapshot, errors.Join(errs...))
		s.record(ctx, span, domainevents.ActionLoadSnapshot, uuid.Nil, fmt.Sprintf("%d of %d records rejected", len(errs), len(records)), err)
		return 0, fmt.Errorf("load snapshot: %w", err)
	}

	s.ids.Absorb(restored)
	next.Adopt(s.factory)
	s.inv = next
	span.SetAttributes(attribute.Int("items", len(records)))
	s.log.DebugContext(ctx, "snapshot loaded", "items", len(records))
	return len(records), nil
}

// Save writes the current inventory to the snapshot repository.
func (s *InventoryService) Save(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Save")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return spanError(span, s.saveLocked(ctx))
}

func (s *InventoryService) saveLocked(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	items := s.inv.Items()
	records := make([]repositories.ItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, repositories.ItemRecord{
			ID:        item.ID(),
			Name:      item.Name().String(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
			DateAdded: item.DateAdded(),
		})
	}
	if err := s.repo.Save(ctx, records); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *InventoryService) autosaveLocked(ctx context.Context) error {
	if !s.autosave {
		return nil
	}
	if err := s.saveLocked(ctx); err != nil {
		s.log.ErrorContext(ctx, "autosave failed", "error", err)
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	return nil
}

// record counts the attempt, marks the span, and publishes the audit event.
// Publish failures are logged and never returned.
func (s *InventoryService) record(ctx context.Context, span trace.Span, action string, itemID uuid.UUID, detail string, opErr error) {
	outcome := "success"
	if opErr != nil {
		outcome = "failure"
		detail = fmt.Sprintf("%s: %v", detail, opErr)
		spanError(span, opErr)
	}
	s.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
	s.log.DebugContext(ctx, "inventory mutation", "action", action, "outcome", outcome, "detail", detail)

	if s.bus == nil {
		return
	}
	evt := domainevents.AuditEvent{
		EventID:    uuid.New(),
		Version:    1,
		Action:     action,
		Succeeded:  opErr == nil,
		ItemID:     itemID,
		Detail:     detail,
		OccurredAt: s.now().UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.log.ErrorContext(ctx, "audit: encode event", "error", err, "action", action)
		return
	}
	if err := s.bus.Publish(ctx, domainevents.TopicInventoryAudit, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.log.WarnContext(ctx, "audit: publish failed", "error", err, "action", action)
	}
}

func (s *InventoryService) entry(item *models.Item) Entry {
	return Entry{Position: s.inv.Position(item), Item: *item}
}

func detach(item *models.Item) *models.Item {
	if item == nil {
		return nil
	}
	c := *item
	return &c
}

func spanError(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
