package tracker

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"stationery/internal/core/apperror"
	appctx "stationery/internal/core/context"
	"stationery/internal/core/id"
	"stationery/internal/core/types"
	"stationery/internal/domain/catalog"
	"stationery/internal/domain/importer"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
	"stationery/pkg/logger"
)

var tracer = otel.Tracer("stationery/tracker")

// Repository loads and stores the persisted blobs.
type Repository interface {
	// Load returns the stored state upgraded to current shapes.
	Load(ctx context.Context, cat *catalog.Catalog, today string) (State, error)
	// Save writes the blob of s stored under key.
	Save(ctx context.Context, key string, s State) error
}

// Notifier receives alert effects.
type Notifier func(ctx context.Context, msg string)

// Config holds Service dependencies. Repo and Catalog are required.
type Config struct {
	Repo     Repository
	Catalog  *catalog.Catalog
	Importer *importer.Pipeline
	Guard    Guard
	Clock    types.Clock
	NewID    func() string
	Notify   Notifier
	Logger   *logger.Logger
}

// Service is the single writer of the application state. Every mutation
// runs a reducer under one mutex and then executes the reducer's effects.
type Service struct {
	mu    sync.RWMutex
	state State

	repo     Repository
	catalog  *catalog.Catalog
	importer *importer.Pipeline
	guard    Guard
	clock    types.Clock
	newID    func() string
	notify   Notifier
	log      *logger.Logger
}

// NewService loads the stored state and returns a ready service.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.Repo == nil {
		return nil, fmt.Errorf("tracker: repository is required")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Guard == nil {
		cfg.Guard = &LocalGuard{}
	}
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock
	}
	if cfg.NewID == nil {
		cfg.NewID = id.New
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Importer == nil {
		cfg.Importer = importer.NewPipeline(nil, nil, cfg.Clock, cfg.Logger)
	}

	s := &Service{
		repo:     cfg.Repo,
		catalog:  cfg.Catalog,
		importer: cfg.Importer,
		guard:    cfg.Guard,
		clock:    cfg.Clock,
		newID:    cfg.NewID,
		notify:   cfg.Notify,
		log:      cfg.Logger.WithComponent("tracker"),
	}

	state, err := cfg.Repo.Load(ctx, cfg.Catalog, cfg.Clock.Today())
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	s.state = state
	s.log.WithContext(ctx).Infow("state loaded",
		"reports", len(state.Reports),
		"stock_items", len(state.Stock),
	)
	return s, nil
}

// Catalog returns the configured catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Today returns the service clock's current date.
func (s *Service) Today() string { return s.clock.Today() }

// State returns a snapshot of the current state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Reports returns the current report list.
func (s *Service) Reports() reports.Store {
	return s.State().Reports
}

// Report returns one report.
func (s *Service) Report(reportID string) (reports.Report, error) {
	return s.State().Reports.Get(reportID)
}

// Stock returns the current ledger.
func (s *Service) Stock() ledger.Ledger {
	return s.State().Stock
}

// Consumption returns units consumed per item by the current Done reports.
func (s *Service) Consumption() map[string]int {
	return Consumption(s.State(), s.catalog.Items(), s.clock.Today())
}

// AddReport commits a new report.
func (s *Service) AddReport(ctx context.Context, d reports.Draft) (reports.Report, error) {
	var created reports.Report
	err := s.dispatch(ctx, "add_report", func(st State) (State, []Effect, error) {
		next, r, effects, err := AddReport(ctx, st, d, s.newID(), s.clock.Today(), s.catalog)
		created = r
		return next, effects, err
	})
	return created, err
}

// UpdateReport edits a report in place.
func (s *Service) UpdateReport(ctx context.Context, reportID string, d reports.Draft) (reports.Report, error) {
	var updated reports.Report
	err := s.dispatch(ctx, "update_report", func(st State) (State, []Effect, error) {
		next, r, effects, err := UpdateReport(ctx, st, reportID, d, s.clock.Today(), s.catalog)
		updated = r
		return next, effects, err
	})
	return updated, err
}

// DeleteReport removes a report.
func (s *Service) DeleteReport(ctx context.Context, reportID string) error {
	return s.dispatch(ctx, "delete_report", func(st State) (State, []Effect, error) {
		return DeleteReport(st, reportID, s.clock.Today())
	})
}

// EditStock sets stock quantities by hand.
func (s *Service) EditStock(ctx context.Context, quantities map[string]int) error {
	return s.dispatch(ctx, "edit_stock", func(st State) (State, []Effect, error) {
		return EditStock(st, quantities, s.clock.Today())
	})
}

// ClearStock zeroes all quantities.
func (s *Service) ClearStock(ctx context.Context) error {
	return s.dispatch(ctx, "clear_stock", func(st State) (State, []Effect, error) {
		next, effects := ClearStock(st)
		return next, effects, nil
	})
}

// SaveDraft stores the in-progress form.
func (s *Service) SaveDraft(ctx context.Context, d reports.Draft) error {
	return s.dispatch(ctx, "save_draft", func(st State) (State, []Effect, error) {
		next, effects := SaveDraft(st, d)
		return next, effects, nil
	})
}

// ClearDraft resets the form.
func (s *Service) ClearDraft(ctx context.Context) error {
	return s.dispatch(ctx, "clear_draft", func(st State) (State, []Effect, error) {
		next, effects := ClearDraft(st)
		return next, effects, nil
	})
}

// Select opens a report for editing.
func (s *Service) Select(ctx context.Context, reportID string) error {
	return s.dispatch(ctx, "select_report", func(st State) (State, []Effect, error) {
		return Select(st, reportID)
	})
}

// Deselect leaves editing mode.
func (s *Service) Deselect(ctx context.Context) error {
	return s.dispatch(ctx, "deselect_report", func(st State) (State, []Effect, error) {
		next, effects := Deselect(st)
		return next, effects, nil
	})
}

// ImportPDF runs the full import pipeline and replaces reports and stock on
// success. The import is not cancellable once started.
func (s *Service) ImportPDF(ctx context.Context, pdf []byte) (importer.Payload, error) {
	return s.runImport(ctx, "import_pdf", func(ctx context.Context) (importer.Payload, error) {
		return s.importer.Run(ctx, pdf)
	})
}

// ImportJSON replaces reports and stock from a JSON backup.
func (s *Service) ImportJSON(ctx context.Context, data []byte) (importer.Payload, error) {
	return s.runImport(ctx, "import_json", func(ctx context.Context) (importer.Payload, error) {
		return s.importer.Parse(ctx, string(data))
	})
}

// Migrate rewrites every blob in the current shape.
func (s *Service) Migrate(ctx context.Context) error {
	return s.dispatch(ctx, "migrate", func(st State) (State, []Effect, error) {
		effects := make([]Effect, 0, len(Keys))
		for _, key := range Keys {
			effects = append(effects, Persist(key))
		}
		return st, effects, nil
	})
}

func (s *Service) runImport(ctx context.Context, op string, run func(context.Context) (importer.Payload, error)) (importer.Payload, error) {
	ctx = appctx.WithOperation(context.WithoutCancel(ctx), op)

	release, err := s.guard.Acquire(ctx)
	if err != nil {
		return importer.Payload{}, err
	}
	defer release()

	payload, err := run(ctx)
	if err != nil {
		s.log.WithContext(ctx).Warnw("import failed", "error", err)
		return importer.Payload{}, err
	}

	err = s.commit(ctx, op, false, func(st State) (State, []Effect, error) {
		next, effects := Import(st, payload, s.catalog)
		return next, effects, nil
	})
	return payload, err
}

// dispatch commits a mutation unless an import is in flight.
func (s *Service) dispatch(ctx context.Context, op string, reduce func(State) (State, []Effect, error)) error {
	return s.commit(appctx.WithOperation(ctx, op), op, true, reduce)
}

// commit applies reduce under the state lock. When guarded, the import
// guard is checked while the lock is held.
func (s *Service) commit(ctx context.Context, op string, guarded bool, reduce func(State) (State, []Effect, error)) error {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if guarded {
		held, err := s.guard.Held(ctx)
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("check import guard: %w", err))
		}
		if held {
			return apperror.NewImportInProgress()
		}
	}

	next, effects, err := reduce(s.state)
	if err != nil {
		span.RecordError(err)
		return err
	}
	s.state = next
	return s.run(ctx, span, next, effects)
}

// run executes effects in order. A failed write is reported but the new
// state is kept in memory.
func (s *Service) run(ctx context.Context, span trace.Span, st State, effects []Effect) error {
	log := s.log.WithContext(ctx)

	var firstErr error
	for _, e := range effects {
		switch e.Kind {
		case EffectPersist:
			if err := s.repo.Save(ctx, e.Key, st); err != nil {
				log.Errorw("persist failed", "key", e.Key, "error", err)
				span.RecordError(err)
				if firstErr == nil {
					firstErr = apperror.NewPersistence(e.Key, err)
				}
				continue
			}
			span.AddEvent("persisted", trace.WithAttributes(attribute.String("key", e.Key)))
		case EffectAlert:
			log.Infow(e.Message)
			if s.notify != nil {
				s.notify(ctx, e.Message)
			}
		}
	}
	return firstErr
}
