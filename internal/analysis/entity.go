package analysis

import (
	"log/slog"
	"sync"
)

// Label classifies a recognized text span.
type Label string

const (
	LabelPerson       Label = "PERSON"
	LabelOrganization Label = "ORGANIZATION"
	LabelProduct      Label = "PRODUCT"
	LabelFacility     Label = "FACILITY"
)

// Span is a recognized (text, label) pair.
type Span struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
}

// Recognizer labels spans of text. Implementations may be expensive to
// construct; the engine builds one lazily per process.
type Recognizer interface {
	Recognize(text string) ([]Span, error)
}

// Capabilities declares the optional collaborators available to the
// engine at construction. A nil NewRecognizer means no recognizer ships
// in this build; the pipeline then runs fallback-only detection.
type Capabilities struct {
	NewRecognizer func() (Recognizer, error)
}

// recognizerHandle performs the once-per-process lazy initialization. A
// failed load is cached so repeated analyses do not re-attempt a doomed
// construction.
type recognizerHandle struct {
	build func() (Recognizer, error)

	once sync.Once
	rec  Recognizer
	err  error
}

func (h *recognizerHandle) get(logger *slog.Logger) Recognizer {
	if h == nil || h.build == nil {
		return nil
	}
	h.once.Do(func() {
		h.rec, h.err = h.build()
		if h.err != nil {
			logger.Info("entity recognizer unavailable", "error", h.err)
		}
	})
	if h.err != nil {
		return nil
	}
	return h.rec
}
