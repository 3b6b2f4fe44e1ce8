package docusaurus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/internal/pkg/logger"

	"github.com/google/uuid"
)

const logModule = "docusaurus_export"

// ExportOptions carries the per-run parameters of a space export.
type ExportOptions struct {
	// SitePath is the root of the Docusaurus site; pages land under
	// <SitePath>/docs/<categorySlug>/.
	SitePath string
	// LastSync, when set, marks on-disk files modified after it as
	// newer_version conflicts instead of plain file_exists.
	LastSync *time.Time
	// Resolution overrides the per-kind default conflict resolution when
	// non-empty.
	Resolution entity.ConflictResolution
}

// CrossLink records a page reached from a second parent during traversal,
// for which a reference stub was emitted instead of a duplicate export.
type CrossLink struct {
	ParentId uuid.UUID
	PageId   uuid.UUID
	StubPath string
}

// ExportResult aggregates one space export run.
type ExportResult struct {
	ExportedPages int
	FailedPages   int
	Conflicts     []entity.ConflictInfo
	CrossLinks    []CrossLink
	Errors        []string
}

// Exporter writes a space's page tree into a category-structured file tree.
// Pages with children become directories holding an index file, leaves become
// single markdown files, and a page reachable from multiple parents is
// exported once with reference stubs at every later position.
type Exporter struct {
	renderer Renderer
	log      logger.ILogger
}

func NewExporter(renderer Renderer, log logger.ILogger) *Exporter {
	return &Exporter{renderer: renderer, log: log}
}

// exportRun is the per-run state machine: the manifest of written pages, the
// ancestor stack guarding against cycles, and the adjacency index built once
// instead of repeated linear scans.
type exportRun struct {
	opts       ExportOptions
	result     *ExportResult
	manifest   map[uuid.UUID]string
	processing map[uuid.UUID]bool
	children   map[uuid.UUID][]*entity.Page
	planned    map[uuid.UUID]string
	byTitle    map[string]uuid.UUID
	now        time.Time
}

// ExportSpace exports all given pages of one mapped space. Category setup
// failures abort the run; per-page failures are recorded and siblings keep
// processing. The returned result is non-nil whenever error is nil.
func (e *Exporter) ExportSpace(ctx context.Context, opts ExportOptions, mapping entity.SpaceMapping, pages []*entity.Page) (*ExportResult, error) {
	docsDir := filepath.Join(opts.SitePath, "docs", Slugify(mapping.CategoryName))

	description := mapping.Description
	if description == "" {
		description = fmt.Sprintf("Pages from the %s space", mapping.CategoryName)
	}
	if err := WriteCategoryFile(docsDir, mapping.CategoryName, mapping.Position, description, mapping.Collapsed); err != nil {
		return nil, err
	}

	run := &exportRun{
		opts:       opts,
		result:     &ExportResult{},
		manifest:   make(map[uuid.UUID]string),
		processing: make(map[uuid.UUID]bool),
		children:   buildAdjacency(pages),
		planned:    make(map[uuid.UUID]string),
		byTitle:    make(map[string]uuid.UUID),
		now:        time.Now(),
	}
	for _, p := range pages {
		run.byTitle[strings.ToLower(p.Title)] = p.Id
	}

	roots := rootPages(pages)
	e.planPaths(run, roots, docsDir, make(map[uuid.UUID]bool))
	e.exportChildren(run, uuid.Nil, roots, docsDir)

	e.log.Info(logModule, "space export finished", map[string]interface{}{
		"spaceId":  mapping.SpaceId.String(),
		"category": mapping.CategoryName,
		"exported": run.result.ExportedPages,
		"failed":   run.result.FailedPages,
	})
	return run.result, nil
}

// planPaths pre-computes every page's canonical target path so internal
// references can be rewritten before their targets are written. The first
// traversal position of a multi-parent page wins, matching the export walk.
func (e *Exporter) planPaths(run *exportRun, pages []*entity.Page, dir string, onPath map[uuid.UUID]bool) {
	for _, page := range pages {
		if onPath[page.Id] {
			continue
		}
		if _, done := run.planned[page.Id]; done {
			continue
		}

		slug := Slugify(page.Title)
		kids := run.children[page.Id]
		if len(kids) > 0 {
			pageDir := filepath.Join(dir, slug)
			run.planned[page.Id] = filepath.Join(pageDir, "index.md")
			onPath[page.Id] = true
			e.planPaths(run, kids, pageDir, onPath)
			delete(onPath, page.Id)
		} else {
			run.planned[page.Id] = filepath.Join(dir, slug+".md")
		}
	}
}

func (e *Exporter) exportChildren(run *exportRun, parentId uuid.UUID, pages []*entity.Page, dir string) {
	for _, page := range pages {
		if run.processing[page.Id] {
			// Cycle guard: the page is already on the ancestor path.
			e.log.Warn(logModule, "cycle detected, skipping page", map[string]interface{}{
				"pageId": page.Id.String(),
				"title":  page.Title,
			})
			continue
		}

		if canonical, exported := run.manifest[page.Id]; exported {
			e.writeCrossRefStub(run, parentId, page, dir, canonical)
			continue
		}

		e.exportPage(run, page, dir)
	}
}

func (e *Exporter) exportPage(run *exportRun, page *entity.Page, dir string) {
	content, err := e.renderer.Render(page)
	if err != nil {
		run.result.FailedPages++
		run.result.Errors = append(run.result.Errors, fmt.Sprintf("render %s: %v", page.Id, err))
		e.log.Error(logModule, "failed to render page", map[string]interface{}{
			"pageId": page.Id.String(),
			"error":  err.Error(),
		})
		return
	}
	slug := Slugify(page.Title)
	kids := run.children[page.Id]

	var target, childDir string
	if len(kids) > 0 {
		childDir = filepath.Join(dir, slug)
		if err := os.MkdirAll(childDir, 0o755); err != nil {
			run.result.FailedPages++
			run.result.Errors = append(run.result.Errors, fmt.Sprintf("mkdir %s: %v", childDir, err))
			return
		}
		target = filepath.Join(childDir, "index.md")
	} else {
		target = filepath.Join(dir, slug+".md")
	}

	// Links resolve relative to the directory the file ends up in
	content = e.rewriteReferences(run, content, filepath.Dir(target))

	if e.writeWithConflictHandling(run, page, target, []byte(content)) {
		run.result.ExportedPages++
		run.manifest[page.Id] = target
	}

	if len(kids) > 0 {
		run.processing[page.Id] = true
		e.exportChildren(run, page.Id, kids, childDir)
		delete(run.processing, page.Id)
	}
}

// writeWithConflictHandling writes the page file, routing clashes with
// existing on-disk content through the conflict policy. Returns whether the
// page should be counted as exported.
func (e *Exporter) writeWithConflictHandling(run *exportRun, page *entity.Page, target string, data []byte) bool {
	conflict, identical := detectConflict(target, data, run.opts.LastSync)
	if identical {
		// Re-export of unchanged content is a no-op.
		return true
	}

	if conflict != nil {
		if run.opts.Resolution != "" {
			conflict.Resolution = run.opts.Resolution
		}
		run.result.Conflicts = append(run.result.Conflicts, *conflict)

		switch conflict.Resolution {
		case entity.ResolutionSkip:
			// The page already exists on disk; leave it alone.
			return true
		case entity.ResolutionMerge:
			if err := backupFile(target, run.now); err != nil {
				run.result.FailedPages++
				run.result.Errors = append(run.result.Errors, fmt.Sprintf("backup %s: %v", target, err))
				return false
			}
		}
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		if os.IsPermission(err) {
			run.result.Conflicts = append(run.result.Conflicts, entity.ConflictInfo{
				FilePath:   target,
				Kind:       entity.ConflictPermissionDenied,
				Resolution: entity.ResolutionSkip,
				Message:    err.Error(),
			})
		}
		run.result.FailedPages++
		run.result.Errors = append(run.result.Errors, fmt.Sprintf("write %s: %v", target, err))
		e.log.Error(logModule, "failed to write page file", map[string]interface{}{
			"pageId": page.Id.String(),
			"path":   target,
			"error":  err.Error(),
		})
		return false
	}
	return true
}

// writeCrossRefStub emits a redirect-style file pointing at the canonical
// export location of a page reachable from more than one parent.
func (e *Exporter) writeCrossRefStub(run *exportRun, parentId uuid.UUID, page *entity.Page, dir, canonical string) {
	slug := Slugify(page.Title)
	stubPath := filepath.Join(dir, slug+"-ref.md")

	rel := relativeLink(dir, canonical)
	stub := fmt.Sprintf("# %s\n\nThis page lives at [%s](%s).\n", page.Title, page.Title, rel)

	if err := os.WriteFile(stubPath, []byte(stub), 0o644); err != nil {
		run.result.Errors = append(run.result.Errors, fmt.Sprintf("write stub %s: %v", stubPath, err))
		return
	}

	run.result.CrossLinks = append(run.result.CrossLinks, CrossLink{
		ParentId: parentId,
		PageId:   page.Id,
		StubPath: stubPath,
	})
	e.log.Debug(logModule, "wrote cross-reference stub", map[string]interface{}{
		"pageId": page.Id.String(),
		"stub":   stubPath,
	})
}

var (
	wikiLinkPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	pageLinkPattern = regexp.MustCompile(`\]\(docmost://([0-9a-fA-F-]{36})\)`)
)

// rewriteReferences resolves internal title and page-id references into
// relative links against the planned target paths. Unresolvable references
// are left untouched.
func (e *Exporter) rewriteReferences(run *exportRun, content, dir string) string {
	content = wikiLinkPattern.ReplaceAllStringFunc(content, func(match string) string {
		title := wikiLinkPattern.FindStringSubmatch(match)[1]
		id, ok := run.byTitle[strings.ToLower(strings.TrimSpace(title))]
		if !ok {
			return match
		}
		planned, ok := run.planned[id]
		if !ok {
			return match
		}
		return fmt.Sprintf("[%s](%s)", title, relativeLink(dir, planned))
	})

	content = pageLinkPattern.ReplaceAllStringFunc(content, func(match string) string {
		raw := pageLinkPattern.FindStringSubmatch(match)[1]
		id, err := uuid.Parse(raw)
		if err != nil {
			return match
		}
		planned, ok := run.planned[id]
		if !ok {
			return match
		}
		return fmt.Sprintf("](%s)", relativeLink(dir, planned))
	})

	return content
}

func relativeLink(fromDir, target string) string {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return target
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// buildAdjacency indexes children by parent id in one pass.
func buildAdjacency(pages []*entity.Page) map[uuid.UUID][]*entity.Page {
	children := make(map[uuid.UUID][]*entity.Page)
	inSet := make(map[uuid.UUID]bool, len(pages))
	for _, p := range pages {
		inSet[p.Id] = true
	}
	for _, p := range pages {
		if p.ParentPageId != nil && inSet[*p.ParentPageId] {
			children[*p.ParentPageId] = append(children[*p.ParentPageId], p)
		}
	}
	return children
}

// rootPages are pages without a parent inside the exported page set.
func rootPages(pages []*entity.Page) []*entity.Page {
	inSet := make(map[uuid.UUID]bool, len(pages))
	for _, p := range pages {
		inSet[p.Id] = true
	}

	var roots []*entity.Page
	for _, p := range pages {
		if p.ParentPageId == nil || !inSet[*p.ParentPageId] {
			roots = append(roots, p)
		}
	}
	return roots
}
