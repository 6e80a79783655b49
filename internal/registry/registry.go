// Package registry owns the in-memory state a front end browses: which
// documents are loaded, the global page ordering across them, and the
// active preview pointer. Mutating operations return the updated views
// instead of exposing the internal slices, so multiple callers never alias
// the same backing array.
package registry

import (
	"fmt"
	"path/filepath"
	"sync"
)

// PageRef identifies one page of one loaded document within the global
// ordering.
type PageRef struct {
	DocIndex int    `json:"doc_index"`
	PageNum  int    `json:"page_num"`
	Path     string `json:"path"`
}

// DocumentInfo describes a loaded document.
type DocumentInfo struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	PageCount int    `json:"page_count"`
}

// Registry is safe for concurrent use by the HTTP layer and the rename
// orchestrator.
type Registry struct {
	mu      sync.RWMutex
	docs    []DocumentInfo
	pages   []PageRef
	preview string
}

func New() *Registry {
	return &Registry{}
}

// Load registers a document and appends all of its pages to the ordering.
// Re-loading an already present path is a no-op.
func (r *Registry) Load(path string, pageCount int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.Path == path {
			return false
		}
	}
	idx := len(r.docs)
	r.docs = append(r.docs, DocumentInfo{
		Path:      path,
		Name:      filepath.Base(path),
		PageCount: pageCount,
	})
	for p := 0; p < pageCount; p++ {
		r.pages = append(r.pages, PageRef{DocIndex: idx, PageNum: p, Path: path})
	}
	if r.preview == "" {
		r.preview = path
	}
	return true
}

// Documents returns a copy of the loaded-document list.
func (r *Registry) Documents() []DocumentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DocumentInfo, len(r.docs))
	copy(out, r.docs)
	return out
}

// Pages returns a copy of the current page ordering.
func (r *Registry) Pages() []PageRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PageRef, len(r.pages))
	copy(out, r.pages)
	return out
}

// Preview returns the active preview path, "" when nothing is loaded.
func (r *Registry) Preview() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.preview
}

// SetPreview points the preview at a loaded document.
func (r *Registry) SetPreview(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.Path == path {
			r.preview = path
			return nil
		}
	}
	return fmt.Errorf("document not loaded: %s", path)
}

// MovePage moves the page at from to position to.
func (r *Registry) MovePage(from, to int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if from < 0 || from >= len(r.pages) || to < 0 || to >= len(r.pages) {
		return fmt.Errorf("page index out of range: %d -> %d", from, to)
	}
	page := r.pages[from]
	rest := append(r.pages[:from:from], r.pages[from+1:]...)
	updated := make([]PageRef, 0, len(r.pages))
	updated = append(updated, rest[:to]...)
	updated = append(updated, page)
	updated = append(updated, rest[to:]...)
	r.pages = updated
	return nil
}

// RemovePage drops the page at index from the ordering.
func (r *Registry) RemovePage(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.pages) {
		return fmt.Errorf("page index out of range: %d", index)
	}
	updated := make([]PageRef, 0, len(r.pages)-1)
	updated = append(updated, r.pages[:index]...)
	updated = append(updated, r.pages[index+1:]...)
	r.pages = updated
	return nil
}

// Remove unloads a document and every page ordering entry referencing it.
func (r *Registry) Remove(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := -1
	for i, d := range r.docs {
		if d.Path == path {
			found = i
			break
		}
	}
	if found < 0 {
		return false
	}
	r.docs = append(r.docs[:found:found], r.docs[found+1:]...)

	updated := make([]PageRef, 0, len(r.pages))
	for _, p := range r.pages {
		if p.Path == path {
			continue
		}
		if p.DocIndex > found {
			p.DocIndex--
		}
		updated = append(updated, p)
	}
	r.pages = updated

	if r.preview == path {
		r.preview = ""
		if len(r.docs) > 0 {
			r.preview = r.docs[0].Path
		}
	}
	return true
}

// Clear drops all documents, pages, and the preview pointer.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = nil
	r.pages = nil
	r.preview = ""
}

// Rebind updates every reference to oldPath (document entry, page
// ordering entries, and the preview pointer) to newPath as one operation.
// It returns how many references moved. The rename orchestrator calls this
// only after the filesystem rename succeeded, so callers never observe a
// half-updated registry.
func (r *Registry) Rebind(oldPath, newPath string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := 0
	for i := range r.docs {
		if r.docs[i].Path == oldPath {
			r.docs[i].Path = newPath
			r.docs[i].Name = filepath.Base(newPath)
			moved++
		}
	}
	updated := make([]PageRef, len(r.pages))
	for i, p := range r.pages {
		if p.Path == oldPath {
			p.Path = newPath
			moved++
		}
		updated[i] = p
	}
	r.pages = updated
	if r.preview == oldPath {
		r.preview = newPath
		moved++
	}
	return moved
}
