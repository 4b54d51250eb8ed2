package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationery/internal/core/apperror"
	"stationery/internal/core/types"
	"stationery/internal/domain/catalog"
	"stationery/internal/domain/importer"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
)

const today = "2024-06-01"

var clock = types.FixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

type memRepo struct {
	mu      sync.Mutex
	initial State
	saved   map[string]int
	failKey string
}

func (r *memRepo) Load(_ context.Context, cat *catalog.Catalog, _ string) (State, error) {
	s := r.initial
	if s.Stock == nil {
		s.Stock = ledger.New(cat.Items())
	}
	return s, nil
}

func (r *memRepo) Save(_ context.Context, key string, _ State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key == r.failKey {
		return errors.New("quota exceeded")
	}
	if r.saved == nil {
		r.saved = make(map[string]int)
	}
	r.saved[key]++
	return nil
}

func newService(t *testing.T, repo *memRepo, pipeline *importer.Pipeline) *Service {
	t.Helper()
	n := 0
	svc, err := NewService(context.Background(), Config{
		Repo:     repo,
		Catalog:  catalog.Default(),
		Importer: pipeline,
		Clock:    clock,
		NewID: func() string {
			n++
			return fmt.Sprintf("r%d", n)
		},
	})
	require.NoError(t, err)
	return svc
}

func draft(status reports.Status, items reports.Items) reports.Draft {
	return reports.Draft{
		RequesterName: "Ann",
		Campus:        "Main Campus",
		ImportDate:    "2024-05-30",
		Items:         items,
		Status:        status,
	}
}

func withStock(q map[string]int) *memRepo {
	stock := ledger.New(catalog.DefaultItems)
	for name, qty := range q {
		stock[name] = ledger.Item{Quantity: qty}
	}
	return &memRepo{initial: State{Stock: stock}}
}

func TestAddReport_Reducer(t *testing.T) {
	ctx := context.Background()
	s := State{Stock: ledger.Ledger{"Pen": {Quantity: 5}}, Selected: "old"}

	next, r, effects, err := AddReport(ctx, s, draft(reports.StatusDone, reports.Items{"Pen": 3}), "r1", today, catalog.Default())
	require.NoError(t, err)

	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, 2, next.Stock["Pen"].Quantity)
	assert.Empty(t, next.Selected)
	assert.Len(t, next.Reports, 1)
	assert.Contains(t, effects, Persist(KeyReports))
	assert.Contains(t, effects, Persist(KeyStock))
	assert.Empty(t, s.Reports, "prior state untouched")
	assert.Equal(t, 5, s.Stock["Pen"].Quantity)
}

func TestAddReport_ValidationLeavesStateAlone(t *testing.T) {
	s := State{Stock: ledger.Ledger{"Pen": {Quantity: 5}}}

	d := draft(reports.StatusDone, reports.Items{"Pen": 3})
	d.RequesterName = ""
	next, _, effects, err := AddReport(context.Background(), s, d, "r1", today, catalog.Default())

	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Nil(t, effects)
	assert.Equal(t, s, next)
}

func TestService_ReportLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := withStock(map[string]int{"Pen": 5, "Card": 1})
	svc := newService(t, repo, nil)

	r, err := svc.AddReport(ctx, draft(reports.StatusProcess, reports.Items{"Pen": 3}))
	require.NoError(t, err)
	assert.Equal(t, 5, svc.Stock()["Pen"].Quantity)

	_, err = svc.UpdateReport(ctx, r.ID, draft(reports.StatusDone, reports.Items{"Pen": 3}))
	require.NoError(t, err)
	assert.Equal(t, ledger.Item{Quantity: 2, LastOutDate: today, LastUpdateQuantity: -3}, svc.Stock()["Pen"])

	_, err = svc.AddReport(ctx, draft(reports.StatusDone, reports.Items{"Pen": 10}))
	assert.Equal(t, []ledger.Shortfall{{Item: "Pen", Requested: 10, Available: 2}}, ledger.ShortfallsOf(err))
	assert.Len(t, svc.Reports(), 1)

	assert.Equal(t, 3, svc.Consumption()["Pen"])

	require.NoError(t, svc.DeleteReport(ctx, r.ID))
	assert.Equal(t, 5, svc.Stock()["Pen"].Quantity)
	assert.Equal(t, today, svc.Stock()["Pen"].LastInDate)
	assert.Empty(t, svc.Reports())

	assert.True(t, apperror.IsNotFound(svc.DeleteReport(ctx, r.ID)))
}

func TestService_SelectAndDraft(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, withStock(nil), nil)

	r, err := svc.AddReport(ctx, draft(reports.StatusProcess, reports.Items{"Tape": 1}))
	require.NoError(t, err)

	require.NoError(t, svc.Select(ctx, r.ID))
	st := svc.State()
	assert.Equal(t, r.ID, st.Selected)
	assert.Equal(t, "Ann", st.Draft.RequesterName)

	d := draft(reports.StatusProcess, reports.Items{"Tape": 2})
	d.RequesterName = "Bea"
	_, err = svc.UpdateReport(ctx, r.ID, d)
	require.NoError(t, err)
	st = svc.State()
	assert.Empty(t, st.Selected, "saving the edited report leaves edit mode")
	assert.Empty(t, st.Draft.RequesterName)

	require.NoError(t, svc.SaveDraft(ctx, reports.Draft{RequesterName: "Half typed"}))
	assert.Equal(t, "Half typed", svc.State().Draft.RequesterName)
	require.NoError(t, svc.ClearDraft(ctx))
	assert.Empty(t, svc.State().Draft.RequesterName)

	assert.True(t, apperror.IsNotFound(svc.Select(ctx, "missing")))
}

func TestService_PersistenceFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	repo := withStock(map[string]int{"Pen": 4})
	repo.failKey = KeyStock
	svc := newService(t, repo, nil)

	err := svc.EditStock(ctx, map[string]int{"Pen": 9})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePersistence, appErr.Code)
	assert.Equal(t, KeyStock, appErr.Details["key"])
	assert.Equal(t, 9, svc.Stock()["Pen"].Quantity)
}

func TestService_ClearStock(t *testing.T) {
	svc := newService(t, withStock(map[string]int{"Pen": 4}), nil)

	require.NoError(t, svc.ClearStock(context.Background()))
	assert.Equal(t, ledger.Item{LastUpdateQuantity: -4}, svc.Stock()["Pen"])
}

type blockingText struct {
	started chan struct{}
	release chan struct{}
}

func (b blockingText) Text(context.Context, []byte) (string, error) {
	close(b.started)
	<-b.release
	return `{"reports": [{"requesterName": "Zed", "campus": "East Campus", "importDate": "2024-01-01", "items": {"Pen": 1}, "status": "Done"}], "stock": {"Pen": 7}}`, nil
}

func TestService_ImportReplacesAndBlocksMutations(t *testing.T) {
	ctx := context.Background()
	text := blockingText{started: make(chan struct{}), release: make(chan struct{})}
	pipeline := importer.NewPipeline(text, importer.Passthrough{}, clock, nil)

	repo := withStock(map[string]int{"Pen": 100})
	svc := newService(t, repo, pipeline)
	_, err := svc.AddReport(ctx, draft(reports.StatusProcess, reports.Items{"Pen": 1}))
	require.NoError(t, err)
	require.NoError(t, svc.Select(ctx, svc.Reports()[0].ID))

	done := make(chan error, 1)
	go func() {
		_, err := svc.ImportPDF(ctx, []byte("%PDF"))
		done <- err
	}()
	<-text.started

	_, err = svc.AddReport(ctx, draft(reports.StatusProcess, reports.Items{"Pen": 1}))
	assert.True(t, apperror.HasCode(err, apperror.CodeImportInProgress))
	_, err = svc.ImportJSON(ctx, []byte(`{"reports": [], "stock": {}}`))
	assert.True(t, apperror.HasCode(err, apperror.CodeImportInProgress))

	close(text.release)
	require.NoError(t, <-done)

	st := svc.State()
	require.Len(t, st.Reports, 1)
	assert.Equal(t, "Zed", st.Reports[0].RequesterName)
	assert.Equal(t, 7, st.Stock["Pen"].Quantity, "no reconciliation on import")
	assert.Contains(t, st.Stock, "Card", "catalog items are kept")
	assert.Empty(t, st.Selected)

	_, err = svc.AddReport(ctx, draft(reports.StatusProcess, reports.Items{"Pen": 1}))
	assert.NoError(t, err)
}

func TestService_FailedImportLeavesState(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, withStock(map[string]int{"Pen": 3}), nil)

	_, err := svc.ImportJSON(ctx, []byte(`{"reports": "nope", "stock": {}}`))
	assert.True(t, apperror.HasCode(err, apperror.CodeImportFailed))
	assert.Equal(t, 3, svc.Stock()["Pen"].Quantity)
}

func TestService_Migrate(t *testing.T) {
	repo := withStock(nil)
	svc := newService(t, repo, nil)

	require.NoError(t, svc.Migrate(context.Background()))
	for _, key := range Keys {
		assert.Equal(t, 1, repo.saved[key], key)
	}
}

func TestLocalGuard(t *testing.T) {
	ctx := context.Background()
	g := &LocalGuard{}

	release, err := g.Acquire(ctx)
	require.NoError(t, err)
	held, _ := g.Held(ctx)
	assert.True(t, held)

	_, err = g.Acquire(ctx)
	assert.True(t, apperror.HasCode(err, apperror.CodeImportInProgress))

	release()
	held, _ = g.Held(ctx)
	assert.False(t, held)
}

func TestService_MutationsRejectedWhileImporting(t *testing.T) {
	ctx := context.Background()
	guard := &LocalGuard{}
	svc, err := NewService(ctx, Config{
		Repo:    &memRepo{},
		Catalog: catalog.Default(),
		Clock:   clock,
		Guard:   guard,
	})
	require.NoError(t, err)

	release, err := guard.Acquire(ctx)
	require.NoError(t, err)

	_, err = svc.AddReport(ctx, draft(reports.StatusProcess, reports.Items{"Pen": 1}))
	assert.True(t, apperror.HasCode(err, apperror.CodeImportInProgress))
	assert.Empty(t, svc.State().Reports)

	release()
	_, err = svc.AddReport(ctx, draft(reports.StatusProcess, reports.Items{"Pen": 1}))
	assert.NoError(t, err)
}

// lockCheckingGuard reports whether the service lock was held during Held.
type lockCheckingGuard struct {
	LocalGuard
	svc          *Service
	lockedOnHeld []bool
}

func (g *lockCheckingGuard) Held(ctx context.Context) (bool, error) {
	locked := !g.svc.mu.TryLock()
	if !locked {
		g.svc.mu.Unlock()
	}
	g.lockedOnHeld = append(g.lockedOnHeld, locked)
	return g.LocalGuard.Held(ctx)
}

func TestService_GuardCheckedUnderStateLock(t *testing.T) {
	ctx := context.Background()
	guard := &lockCheckingGuard{}
	svc, err := NewService(ctx, Config{
		Repo:    &memRepo{},
		Catalog: catalog.Default(),
		Clock:   clock,
		Guard:   guard,
	})
	require.NoError(t, err)
	guard.svc = svc

	_, err = svc.AddReport(ctx, draft(reports.StatusProcess, reports.Items{"Pen": 1}))
	require.NoError(t, err)
	require.NoError(t, svc.ClearStock(ctx))

	require.NotEmpty(t, guard.lockedOnHeld)
	for _, locked := range guard.lockedOnHeld {
		assert.True(t, locked)
	}
}

func TestUpdateReport_ImportedOffCatalogNames(t *testing.T) {
	ctx := context.Background()
	imported := reports.Report{
		ID:            "import-1-0",
		RequesterName: "Kim",
		Campus:        "Main",
		ImportDate:    "2024-05-02",
		Items:         reports.Items{"Gel Pen X": 2},
		Status:        reports.StatusProcess,
	}
	s := State{
		Reports: reports.Store{imported},
		Stock:   ledger.Ledger{"Gel Pen X": {Quantity: 5}, "Pen": {Quantity: 5}},
	}
	edit := func(campus string, items reports.Items) reports.Draft {
		return reports.Draft{
			RequesterName: "Kim",
			Campus:        campus,
			ImportDate:    "2024-05-02",
			Items:         items,
			Status:        reports.StatusDone,
		}
	}

	next, r, _, err := UpdateReport(ctx, s, imported.ID, edit("Main", reports.Items{"Gel Pen X": 2}), today, catalog.Default())
	require.NoError(t, err, "unchanged names are not rechecked")
	assert.Equal(t, reports.StatusDone, r.Status)
	assert.Equal(t, 3, next.Stock["Gel Pen X"].Quantity)

	_, _, _, err = UpdateReport(ctx, s, imported.ID, edit("Elsewhere", reports.Items{"Gel Pen X": 2}), today, catalog.Default())
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "a changed campus must be in the catalog")

	_, _, _, err = UpdateReport(ctx, s, imported.ID, edit("Main", reports.Items{"Gel Pen X": 1, "Quill": 1}), today, catalog.Default())
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "added items must be in the catalog")

	_, _, _, err = UpdateReport(ctx, s, imported.ID, edit("Main Campus", reports.Items{"Gel Pen X": 1, "Pen": 1}), today, catalog.Default())
	assert.NoError(t, err)
}
