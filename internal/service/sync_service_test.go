package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/byeager-uptime/docmost/internal/dto"
	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/internal/pkg/logger"
	"github.com/byeager-uptime/docmost/internal/repository/contract"
	"github.com/byeager-uptime/docmost/internal/repository/memory"
	"github.com/byeager-uptime/docmost/internal/repository/specification"
	"github.com/byeager-uptime/docmost/internal/repository/unitofwork"
	"github.com/byeager-uptime/docmost/pkg/analysis"
	"github.com/byeager-uptime/docmost/pkg/docusaurus"

	"github.com/google/uuid"
)

// --- in-memory fakes ---

type fakePageRepo struct {
	pages []*entity.Page
}

func (f *fakePageRepo) Create(ctx context.Context, page *entity.Page) error { return nil }
func (f *fakePageRepo) Update(ctx context.Context, page *entity.Page) error { return nil }
func (f *fakePageRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (f *fakePageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Page, error) {
	if len(f.pages) == 0 {
		return nil, nil
	}
	return f.pages[0], nil
}
func (f *fakePageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Page, error) {
	return f.pages, nil
}
func (f *fakePageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, p := range f.pages {
		if pageMatches(p, specs) {
			n++
		}
	}
	return n, nil
}

// pageMatches mirrors the filters the sync path counts with.
func pageMatches(p *entity.Page, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch s := sp.(type) {
		case specification.BySpaceID:
			if p.SpaceId != s.SpaceID {
				return false
			}
		case specification.UpdatedAfter:
			touched := p.CreatedAt
			if p.UpdatedAt != nil && p.UpdatedAt.After(touched) {
				touched = *p.UpdatedAt
			}
			if !touched.After(s.After) {
				return false
			}
		}
	}
	return true
}

type fakeSpaceRepo struct {
	spaces []*entity.Space
}

func (f *fakeSpaceRepo) Create(ctx context.Context, space *entity.Space) error { return nil }
func (f *fakeSpaceRepo) Update(ctx context.Context, space *entity.Space) error { return nil }
func (f *fakeSpaceRepo) Delete(ctx context.Context, id uuid.UUID) error        { return nil }
func (f *fakeSpaceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Space, error) {
	if len(f.spaces) == 0 {
		return nil, nil
	}
	return f.spaces[0], nil
}
func (f *fakeSpaceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Space, error) {
	return f.spaces, nil
}

type fakeSettingsRepo struct {
	configs   map[uuid.UUID]*entity.IntegrationConfig
	histories map[uuid.UUID][]entity.SyncResult
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{
		configs:   make(map[uuid.UUID]*entity.IntegrationConfig),
		histories: make(map[uuid.UUID][]entity.SyncResult),
	}
}

func (f *fakeSettingsRepo) GetConfig(ctx context.Context, workspaceId uuid.UUID) (*entity.IntegrationConfig, error) {
	return f.configs[workspaceId], nil
}
func (f *fakeSettingsRepo) SaveConfig(ctx context.Context, workspaceId uuid.UUID, cfg *entity.IntegrationConfig) error {
	f.configs[workspaceId] = cfg
	return nil
}
func (f *fakeSettingsRepo) ListWorkspaces(ctx context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(f.configs))
	for id := range f.configs {
		ids = append(ids, id)
	}
	return ids, nil
}
func (f *fakeSettingsRepo) AppendSyncResult(ctx context.Context, workspaceId uuid.UUID, result entity.SyncResult) error {
	f.histories[workspaceId] = append([]entity.SyncResult{result}, f.histories[workspaceId]...)
	return nil
}
func (f *fakeSettingsRepo) RecentSyncResults(ctx context.Context, workspaceId uuid.UUID, limit int) ([]entity.SyncResult, error) {
	history := f.histories[workspaceId]
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}
func (f *fakeSettingsRepo) LastSyncResult(ctx context.Context, workspaceId uuid.UUID) (*entity.SyncResult, error) {
	history := f.histories[workspaceId]
	if len(history) == 0 {
		return nil, nil
	}
	return &history[0], nil
}

type fakeUow struct {
	pages    *fakePageRepo
	spaces   *fakeSpaceRepo
	settings *fakeSettingsRepo
}

func (u *fakeUow) Begin(ctx context.Context) error                 { return nil }
func (u *fakeUow) Commit() error                                   { return nil }
func (u *fakeUow) Rollback() error                                 { return nil }
func (u *fakeUow) PageRepository() contract.PageRepository         { return u.pages }
func (u *fakeUow) SpaceRepository() contract.SpaceRepository       { return u.spaces }
func (u *fakeUow) SettingsRepository() contract.SettingsRepository { return u.settings }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

// countingRenderer tracks how many pages were actually rendered.
type countingRenderer struct {
	calls int
}

func (r *countingRenderer) Render(page *entity.Page) (string, error) {
	r.calls++
	return "# " + page.Title + "\n", nil
}

// --- helpers ---

func pmDoc(text string) string {
	doc := map[string]interface{}{
		"type": "doc",
		"content": []interface{}{
			map[string]interface{}{
				"type": "paragraph",
				"content": []interface{}{
					map[string]interface{}{"type": "text", "text": text},
				},
			},
		},
	}
	data, _ := json.Marshal(doc)
	return string(data)
}

func makePage(title string, spaceId, workspaceId uuid.UUID, parent *uuid.UUID, created time.Time) *entity.Page {
	return &entity.Page{
		Id:           uuid.New(),
		Title:        title,
		Content:      pmDoc(title + " body"),
		SpaceId:      spaceId,
		WorkspaceId:  workspaceId,
		ParentPageId: parent,
		CreatedAt:    created,
	}
}

func newSyncFixture(t *testing.T) (*fakeUow, *syncService, *countingRenderer, uuid.UUID, uuid.UUID) {
	t.Helper()
	workspaceId := uuid.New()
	spaceId := uuid.New()

	uow := &fakeUow{
		pages:    &fakePageRepo{},
		spaces:   &fakeSpaceRepo{},
		settings: newFakeSettingsRepo(),
	}
	renderer := &countingRenderer{}
	exporter := docusaurus.NewExporter(renderer, logger.NewNopLogger())

	svc := NewSyncService(
		&fakeFactory{uow: uow},
		exporter,
		memory.NewLastSyncCache(),
		nil,
		logger.NewNopLogger(),
		10,
	).(*syncService)

	return uow, svc, renderer, workspaceId, spaceId
}

func enabledConfig(sitePath string, spaceId uuid.UUID) *entity.IntegrationConfig {
	return &entity.IntegrationConfig{
		Enabled:  true,
		SitePath: sitePath,
		AutoSync: entity.AutoSyncConfig{Interval: entity.IntervalManual},
		SpaceMappings: []entity.SpaceMapping{
			{SpaceId: spaceId, CategoryName: "Guides", Position: 1},
		},
	}
}

// --- tests ---

func TestTriggerSyncFastFailures(t *testing.T) {
	uow, svc, _, workspaceId, spaceId := newSyncFixture(t)
	ctx := context.Background()
	req := &dto.TriggerSyncRequest{WorkspaceId: workspaceId}

	if _, err := svc.TriggerSync(ctx, req); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	// Without a settings row there is nothing to record the failure against.
	if len(uow.settings.histories[workspaceId]) != 0 {
		t.Fatalf("unexpected history for unconfigured workspace: %+v", uow.settings.histories[workspaceId])
	}

	cfg := enabledConfig(t.TempDir(), spaceId)
	cfg.Enabled = false
	uow.settings.configs[workspaceId] = cfg
	if _, err := svc.TriggerSync(ctx, req); err != ErrSyncDisabled {
		t.Fatalf("expected ErrSyncDisabled, got %v", err)
	}

	cfg.Enabled = true
	cfg.SpaceMappings = nil
	if _, err := svc.TriggerSync(ctx, req); err != ErrNoMappings {
		t.Fatalf("expected ErrNoMappings, got %v", err)
	}

	// Both rejections left a terminal failed result behind.
	history := uow.settings.histories[workspaceId]
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	for _, res := range history {
		if res.Status != entity.SyncStatusFailed {
			t.Fatalf("rejected run status = %s, want failed", res.Status)
		}
		if len(res.Stats.Errors) == 0 {
			t.Fatalf("rejected run carries no error: %+v", res)
		}
	}
	if history[0].Stats.Errors[0] != ErrNoMappings.Error() {
		t.Fatalf("newest rejection = %v, want %v", history[0].Stats.Errors, ErrNoMappings)
	}
	if cached, ok := svc.lastSyncCache.Get(workspaceId); !ok || cached.Status != entity.SyncStatusFailed {
		t.Fatalf("rejected run not cached: %+v", cached)
	}
}

func TestTriggerSyncRejectsOverlappingRuns(t *testing.T) {
	_, svc, _, workspaceId, _ := newSyncFixture(t)

	if !svc.acquire(workspaceId) {
		t.Fatal("first acquire should succeed")
	}
	defer svc.release(workspaceId)

	_, err := svc.TriggerSync(context.Background(), &dto.TriggerSyncRequest{WorkspaceId: workspaceId})
	if err != ErrSyncInProgress {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
}

func TestTriggerSyncExportsSpace(t *testing.T) {
	uow, svc, renderer, workspaceId, spaceId := newSyncFixture(t)
	ctx := context.Background()

	created := time.Now().Add(-time.Hour)
	root := makePage("Welcome", spaceId, workspaceId, nil, created)
	child1 := makePage("Install", spaceId, workspaceId, &root.Id, created)
	child2 := makePage("Upgrade", spaceId, workspaceId, &root.Id, created)
	grand := makePage("Linux Install", spaceId, workspaceId, &child1.Id, created)
	uow.pages.pages = []*entity.Page{root, child1, child2, grand}
	uow.settings.configs[workspaceId] = enabledConfig(t.TempDir(), spaceId)

	report, err := svc.TriggerSync(ctx, &dto.TriggerSyncRequest{WorkspaceId: workspaceId})
	if err != nil {
		t.Fatalf("TriggerSync: %v", err)
	}

	stats := report.Result.Stats
	if report.Result.Status != entity.SyncStatusSuccess {
		t.Fatalf("status = %s, want success (errors: %v)", report.Result.Status, stats.Errors)
	}
	if stats.TotalSpaces != 1 || stats.SuccessfulSpaces != 1 || stats.FailedSpaces != 0 {
		t.Fatalf("space stats = %+v", stats)
	}
	if stats.TotalPages != 4 || stats.SuccessfulPages != 4 || stats.FailedPages != 0 {
		t.Fatalf("page stats = %+v", stats)
	}
	if renderer.calls != 4 {
		t.Fatalf("renderer invoked %d times, want 4", renderer.calls)
	}
	if len(report.Recommendations) != 0 {
		t.Fatalf("unexpected recommendations on clean run: %v", report.Recommendations)
	}

	history := uow.settings.histories[workspaceId]
	if len(history) != 1 || history[0].SyncId != report.Result.SyncId {
		t.Fatalf("sync result not persisted: %+v", history)
	}
	if report.Result.ConfigSnapshot == nil {
		t.Fatal("config snapshot missing from result")
	}
}

func TestTriggerSyncIncrementalSkipsUnchangedSpace(t *testing.T) {
	uow, svc, renderer, workspaceId, spaceId := newSyncFixture(t)
	ctx := context.Background()

	created := time.Now().Add(-2 * time.Hour)
	page := makePage("Stable", spaceId, workspaceId, nil, created)
	uow.pages.pages = []*entity.Page{page}
	uow.settings.configs[workspaceId] = enabledConfig(t.TempDir(), spaceId)

	// A prior fully successful run newer than every page.
	prior := entity.SyncResult{
		SyncId:      uuid.New(),
		WorkspaceId: workspaceId,
		Status:      entity.SyncStatusSuccess,
		StartTime:   time.Now().Add(-time.Hour),
		EndTime:     time.Now().Add(-time.Hour),
	}
	uow.settings.histories[workspaceId] = []entity.SyncResult{prior}

	report, err := svc.TriggerSync(ctx, &dto.TriggerSyncRequest{WorkspaceId: workspaceId})
	if err != nil {
		t.Fatalf("TriggerSync: %v", err)
	}

	if renderer.calls != 0 {
		t.Fatalf("renderer invoked %d times on unchanged space, want 0", renderer.calls)
	}
	stats := report.Result.Stats
	if report.Result.Status != entity.SyncStatusSuccess || stats.SuccessfulSpaces != 1 {
		t.Fatalf("unexpected stats for unchanged space: %+v", stats)
	}
	if stats.TotalPages != 1 || stats.SuccessfulPages != 1 {
		t.Fatalf("up-to-date pages should still be counted: %+v", stats)
	}
}

func TestTriggerSyncFullRebuildsWipedTree(t *testing.T) {
	uow, svc, renderer, workspaceId, spaceId := newSyncFixture(t)
	ctx := context.Background()

	sitePath := t.TempDir()
	page := makePage("Welcome", spaceId, workspaceId, nil, time.Now().Add(-time.Hour))
	uow.pages.pages = []*entity.Page{page}
	uow.settings.configs[workspaceId] = enabledConfig(sitePath, spaceId)

	if _, err := svc.TriggerSync(ctx, &dto.TriggerSyncRequest{WorkspaceId: workspaceId}); err != nil {
		t.Fatalf("TriggerSync: %v", err)
	}
	if renderer.calls != 1 {
		t.Fatalf("renderer invoked %d times on first run, want 1", renderer.calls)
	}

	// Wipe the exported tree behind the integration's back.
	docsDir := filepath.Join(sitePath, "docs")
	if err := os.RemoveAll(docsDir); err != nil {
		t.Fatal(err)
	}

	// An incremental run sees no page changes and cannot repair the wipe.
	if _, err := svc.TriggerSync(ctx, &dto.TriggerSyncRequest{WorkspaceId: workspaceId}); err != nil {
		t.Fatalf("TriggerSync: %v", err)
	}
	if renderer.calls != 1 {
		t.Fatalf("renderer invoked %d times on unchanged run, want 1", renderer.calls)
	}
	if _, err := os.Stat(docsDir); !os.IsNotExist(err) {
		t.Fatalf("docs tree unexpectedly present after incremental run: %v", err)
	}

	// A full run ignores the baseline and re-exports everything.
	report, err := svc.TriggerSync(ctx, &dto.TriggerSyncRequest{WorkspaceId: workspaceId, Full: true})
	if err != nil {
		t.Fatalf("TriggerSync full: %v", err)
	}
	if renderer.calls != 2 {
		t.Fatalf("renderer invoked %d times after full run, want 2", renderer.calls)
	}
	if report.Result.Status != entity.SyncStatusSuccess || report.Result.Stats.SuccessfulPages != 1 {
		t.Fatalf("full run result = %+v", report.Result)
	}
	if _, err := os.Stat(filepath.Join(docsDir, "guides", "welcome.md")); err != nil {
		t.Fatalf("docs tree not rebuilt: %v", err)
	}
}

func TestTriggerSyncReportsCrossLinks(t *testing.T) {
	uow, svc, _, workspaceId, spaceId := newSyncFixture(t)
	ctx := context.Background()

	created := time.Now().Add(-time.Hour)
	left := makePage("Left", spaceId, workspaceId, nil, created)
	right := makePage("Right", spaceId, workspaceId, nil, created)
	shared := makePage("Shared Topic", spaceId, workspaceId, &left.Id, created)
	sharedAgain := *shared
	sharedAgain.ParentPageId = &right.Id
	uow.pages.pages = []*entity.Page{left, right, shared, &sharedAgain}
	uow.settings.configs[workspaceId] = enabledConfig(t.TempDir(), spaceId)

	report, err := svc.TriggerSync(ctx, &dto.TriggerSyncRequest{WorkspaceId: workspaceId})
	if err != nil {
		t.Fatalf("TriggerSync: %v", err)
	}

	if len(report.CrossLinks) != 1 {
		t.Fatalf("cross links = %d, want 1", len(report.CrossLinks))
	}
	cl := report.CrossLinks[0]
	if cl.Kind != analysis.RelationshipCrossLink {
		t.Fatalf("cross link kind = %s, want %s", cl.Kind, analysis.RelationshipCrossLink)
	}
	if cl.ChildId != shared.Id {
		t.Fatalf("cross link child = %s, want %s", cl.ChildId, shared.Id)
	}
}

func TestSyncStatusReportsHistoryAndProgress(t *testing.T) {
	uow, svc, _, workspaceId, _ := newSyncFixture(t)
	ctx := context.Background()

	resp, err := svc.Status(ctx, workspaceId)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if resp.LastSync != nil || len(resp.History) != 0 || resp.InProgress {
		t.Fatalf("expected empty status, got %+v", resp)
	}

	result := entity.SyncResult{SyncId: uuid.New(), WorkspaceId: workspaceId, Status: entity.SyncStatusSuccess}
	uow.settings.histories[workspaceId] = []entity.SyncResult{result}
	svc.mu.Lock()
	svc.running[workspaceId] = true
	svc.mu.Unlock()

	resp, err = svc.Status(ctx, workspaceId)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if resp.LastSync == nil || resp.LastSync.SyncId != result.SyncId {
		t.Fatalf("last sync = %+v", resp.LastSync)
	}
	if !resp.InProgress {
		t.Fatal("expected in-progress flag")
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		stats entity.SyncStats
		want  entity.SyncStatus
	}{
		{"all spaces ok", entity.SyncStats{TotalSpaces: 2, SuccessfulSpaces: 2}, entity.SyncStatusSuccess},
		{"mixed", entity.SyncStats{TotalSpaces: 2, SuccessfulSpaces: 1, FailedSpaces: 1}, entity.SyncStatusPartial},
		{"all failed", entity.SyncStats{TotalSpaces: 2, FailedSpaces: 2}, entity.SyncStatusFailed},
		{"empty run", entity.SyncStats{}, entity.SyncStatusSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveStatus(tt.stats); got != tt.want {
				t.Fatalf("deriveStatus(%+v) = %s, want %s", tt.stats, got, tt.want)
			}
		})
	}
}

func TestBuildReportRecommendations(t *testing.T) {
	result := entity.SyncResult{
		Status: entity.SyncStatusPartial,
		Stats: entity.SyncStats{
			TotalPages:      10,
			SuccessfulPages: 6,
			FailedPages:     4,
			Conflicts:       []entity.ConflictInfo{{FilePath: "a.md", Kind: entity.ConflictFileExists}},
		},
	}
	report := buildReport(result, nil)
	if len(report.Recommendations) < 2 {
		t.Fatalf("expected failure-rate and conflict recommendations, got %v", report.Recommendations)
	}
	if report.Summary == "" {
		t.Fatal("summary missing")
	}
}
