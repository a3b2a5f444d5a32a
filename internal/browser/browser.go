// Package browser coordinates the folder, notebook and note selection cascade.
//
// Each tier is fetched asynchronously. A tier's generation is bumped whenever
// its parent selection changes, and every fetch is tagged with the generation
// it was started under; results that come back under an older generation are
// dropped. The tier therefore always shows the children of the most recent
// selection, regardless of the order responses arrive in.
package browser

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/iksnae/smartnotes/internal"
)

// ErrNoNotebookSelected is returned when retrying the notes tier with no notebook selected
var ErrNoNotebookSelected = errors.New("no notebook selected")

// State is the lifecycle of one tier
type State int

const (
	// NoParentSelected means the tier has nothing to show because its parent is unset
	NoParentSelected State = iota
	LoadingChildren
	ChildrenLoaded
	LoadingFailed
)

func (s State) String() string {
	switch s {
	case NoParentSelected:
		return "no-parent-selected"
	case LoadingChildren:
		return "loading"
	case ChildrenLoaded:
		return "loaded"
	case LoadingFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Level names a tier
type Level int

const (
	LevelFolders Level = iota
	LevelNotebooks
	LevelNotes
)

func (l Level) String() string {
	switch l {
	case LevelFolders:
		return "folders"
	case LevelNotebooks:
		return "notebooks"
	case LevelNotes:
		return "notes"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Tier is a point-in-time view of one level of the hierarchy
type Tier[T any] struct {
	State    State
	ParentID internal.ID
	Items    []T
	Err      error
}

// Empty reports whether the tier loaded successfully with no children
func (t Tier[T]) Empty() bool {
	return t.State == ChildrenLoaded && len(t.Items) == 0
}

// Snapshot is a consistent copy of the whole browser. Version increases with
// every change so consumers can drop snapshots delivered out of order.
type Snapshot struct {
	Version            uint64
	Folders            Tier[internal.Folder]
	Notebooks          Tier[internal.Notebook]
	Notes              Tier[internal.Note]
	SelectedFolderID   internal.ID
	SelectedNotebookID internal.ID
}

// Provider fetches the children of a parent
type Provider interface {
	ListFolders(ctx context.Context) ([]internal.Folder, error)
	ListNotebooks(ctx context.Context, folderID internal.ID) ([]internal.Notebook, error)
	ListNotes(ctx context.Context, notebookID internal.ID) ([]internal.Note, error)
}

type tier[T any] struct {
	Tier[T]
	gen    uint64
	cancel context.CancelFunc
}

// reset forces the tier back to NoParentSelected and orphans any in-flight fetch
func (t *tier[T]) reset() {
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.Tier = Tier[T]{State: NoParentSelected}
}

func (t *tier[T]) view() Tier[T] {
	v := t.Tier
	v.Items = slices.Clone(t.Items)
	return v
}

// Browser owns the selection cascade. It is safe for concurrent use.
type Browser struct {
	provider Provider

	mu                 sync.Mutex
	version            uint64
	folders            tier[internal.Folder]
	notebooks          tier[internal.Notebook]
	notes              tier[internal.Note]
	selectedFolderID   internal.ID
	selectedNotebookID internal.ID
	listeners          []func(Snapshot)

	wg sync.WaitGroup
}

// New returns a Browser with every tier in NoParentSelected
func New(provider Provider) *Browser {
	return &Browser{provider: provider}
}

// OnChange registers fn to receive a snapshot after every state change.
// fn runs outside the browser's lock and may call back into it.
func (b *Browser) OnChange(fn func(Snapshot)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Snapshot returns the current state
func (b *Browser) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Wait blocks until every fetch started so far has settled
func (b *Browser) Wait() {
	b.wg.Wait()
}

// Close abandons all in-flight fetches
func (b *Browser) Close() {
	b.mu.Lock()
	for _, cancel := range []context.CancelFunc{b.folders.cancel, b.notebooks.cancel, b.notes.cancel} {
		if cancel != nil {
			cancel()
		}
	}
	b.mu.Unlock()
	b.wg.Wait()
}

// LoadFolders (re)fetches the root tier
func (b *Browser) LoadFolders(ctx context.Context) {
	b.mu.Lock()
	startFetch(ctx, b, &b.folders, "", func(ctx context.Context, _ internal.ID) ([]internal.Folder, error) {
		return b.provider.ListFolders(ctx)
	})
	snap := b.changedLocked()
	b.mu.Unlock()
	b.notify(snap)
}

// SelectFolder makes id the selected folder, starts loading its notebooks and
// clears the notebook selection along with the notes tier
func (b *Browser) SelectFolder(ctx context.Context, id internal.ID) {
	if id == "" {
		b.ClearFolder()
		return
	}

	b.mu.Lock()
	b.selectedFolderID = id
	b.selectedNotebookID = ""
	b.notes.reset()
	startFetch(ctx, b, &b.notebooks, id, b.provider.ListNotebooks)
	snap := b.changedLocked()
	b.mu.Unlock()
	b.notify(snap)
}

// SelectNotebook makes id the selected notebook and starts loading its notes.
// It fails with internal.ErrNoFolderSelected when no folder is selected.
func (b *Browser) SelectNotebook(ctx context.Context, id internal.ID) error {
	if id == "" {
		b.ClearNotebook()
		return nil
	}

	b.mu.Lock()
	if b.selectedFolderID == "" {
		b.mu.Unlock()
		return internal.ErrNoFolderSelected
	}
	b.selectedNotebookID = id
	startFetch(ctx, b, &b.notes, id, b.provider.ListNotes)
	snap := b.changedLocked()
	b.mu.Unlock()
	b.notify(snap)
	return nil
}

// ClearFolder deselects the folder; the notebook and notes tiers return to NoParentSelected
func (b *Browser) ClearFolder() {
	b.mu.Lock()
	b.selectedFolderID = ""
	b.selectedNotebookID = ""
	b.notebooks.reset()
	b.notes.reset()
	snap := b.changedLocked()
	b.mu.Unlock()
	b.notify(snap)
}

// ClearNotebook deselects the notebook; the notes tier returns to NoParentSelected
func (b *Browser) ClearNotebook() {
	b.mu.Lock()
	b.selectedNotebookID = ""
	b.notes.reset()
	snap := b.changedLocked()
	b.mu.Unlock()
	b.notify(snap)
}

// Retry re-fetches level for its current parent
func (b *Browser) Retry(ctx context.Context, level Level) error {
	switch level {
	case LevelFolders:
		b.LoadFolders(ctx)
		return nil
	case LevelNotebooks:
		b.mu.Lock()
		id := b.selectedFolderID
		b.mu.Unlock()
		if id == "" {
			return internal.ErrNoFolderSelected
		}
		b.refetch(ctx, level, id)
		return nil
	case LevelNotes:
		b.mu.Lock()
		id := b.selectedNotebookID
		b.mu.Unlock()
		if id == "" {
			return ErrNoNotebookSelected
		}
		b.refetch(ctx, level, id)
		return nil
	default:
		return fmt.Errorf("unknown level %d", int(level))
	}
}

// refetch reloads a child tier without touching the selections
func (b *Browser) refetch(ctx context.Context, level Level, parent internal.ID) {
	b.mu.Lock()
	switch level {
	case LevelNotebooks:
		if b.selectedFolderID != parent {
			b.mu.Unlock()
			return
		}
		startFetch(ctx, b, &b.notebooks, parent, b.provider.ListNotebooks)
	case LevelNotes:
		if b.selectedNotebookID != parent {
			b.mu.Unlock()
			return
		}
		startFetch(ctx, b, &b.notes, parent, b.provider.ListNotes)
	}
	snap := b.changedLocked()
	b.mu.Unlock()
	b.notify(snap)
}

// startFetch moves t into LoadingChildren for parent and runs fetch in the
// background. Must be called with b.mu held.
func startFetch[T any](ctx context.Context, b *Browser, t *tier[T], parent internal.ID,
	fetch func(context.Context, internal.ID) ([]T, error)) {
	t.reset()
	t.State = LoadingChildren
	t.ParentID = parent
	gen := t.gen

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer cancel()

		items, err := fetch(ctx, parent)

		b.mu.Lock()
		if t.gen != gen {
			b.mu.Unlock()
			internal.LogDebug("Discarding stale response for parent %q", parent)
			return
		}
		t.cancel = nil
		if err != nil {
			t.State = LoadingFailed
			t.Items = nil
			t.Err = err
		} else {
			t.State = ChildrenLoaded
			t.Items = items
			t.Err = nil
		}
		snap := b.changedLocked()
		b.mu.Unlock()
		b.notify(snap)
	}()
}

func (b *Browser) changedLocked() Snapshot {
	b.version++
	return b.snapshotLocked()
}

func (b *Browser) snapshotLocked() Snapshot {
	return Snapshot{
		Version:            b.version,
		Folders:            b.folders.view(),
		Notebooks:          b.notebooks.view(),
		Notes:              b.notes.view(),
		SelectedFolderID:   b.selectedFolderID,
		SelectedNotebookID: b.selectedNotebookID,
	}
}

func (b *Browser) notify(snap Snapshot) {
	b.mu.Lock()
	listeners := slices.Clone(b.listeners)
	b.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}
