package pipeline

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/IshaanNene/keyscope/internal/config"
	"github.com/IshaanNene/keyscope/internal/types"
)

// Middleware processes a record and returns the (possibly modified) record.
// Return nil to drop the record from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a record. Return nil to drop the record.
	Process(rec *types.Record) (*types.Record, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Default builds the record cleanup chain used after merging: trim, strip
// markup, drop untitled rows, fill defaults, and dedup by link when enabled.
func Default(cfg *config.Config, logger *slog.Logger) *Pipeline {
	p := New(logger)
	p.Use(&TrimMiddleware{})
	p.Use(NewHTMLSanitizeMiddleware())
	p.Use(&RequiredFieldsMiddleware{Fields: []string{types.ColTitle}})
	p.Use(&DefaultValueMiddleware{Defaults: map[string]string{types.ColPublisher: "Unknown"}})
	if cfg.Advanced.Dedup {
		p.Use(NewDedupMiddleware(types.ColLink))
	}
	return p
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the record through all middleware in order.
func (p *Pipeline) Process(rec *types.Record) (*types.Record, error) {
	current := rec

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage:  mw.Name(),
				Record: current,
				Err:    err,
			}
		}
		if result == nil {
			p.logger.Debug("record dropped", "stage", mw.Name(), "link", rec.Link)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// Run processes a batch, preserving order, and returns the surviving records
// along with the number dropped.
func (p *Pipeline) Run(records []types.Record) ([]types.Record, int, error) {
	out := make([]types.Record, 0, len(records))
	for i := range records {
		rec := records[i]
		res, err := p.Process(&rec)
		if err != nil {
			return nil, 0, err
		}
		if res != nil {
			out = append(out, *res)
		}
	}
	return out, len(records) - len(out), nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// textFields returns pointers to the record's free-text columns.
func textFields(rec *types.Record) map[string]*string {
	return map[string]*string{
		types.ColTitle:     &rec.Title,
		types.ColContent:   &rec.Content,
		types.ColPublisher: &rec.Publisher,
		types.ColDate:      &rec.Date,
		types.ColLink:      &rec.Link,
	}
}

// field returns the value of a column, looking in Extra for non-standard keys.
func field(rec *types.Record, key string) string {
	if p, ok := textFields(rec)[key]; ok {
		return *p
	}
	if key == types.ColSource {
		return rec.Source
	}
	return rec.Extra[key]
}

// --- Built-in Middleware ---

// RequiredFieldsMiddleware drops records missing required columns.
type RequiredFieldsMiddleware struct {
	Fields []string
}

func (m *RequiredFieldsMiddleware) Name() string { return "required_fields" }

func (m *RequiredFieldsMiddleware) Process(rec *types.Record) (*types.Record, error) {
	for _, f := range m.Fields {
		if strings.TrimSpace(field(rec, f)) == "" {
			return nil, nil
		}
	}
	return rec, nil
}

// DedupMiddleware drops records whose key column was already seen. Link keys
// are compared in canonical form.
type DedupMiddleware struct {
	mu   sync.Mutex
	seen map[string]struct{}
	key  string
}

func NewDedupMiddleware(key string) *DedupMiddleware {
	return &DedupMiddleware{
		seen: make(map[string]struct{}),
		key:  key,
	}
}

func (m *DedupMiddleware) Name() string { return "dedup" }

func (m *DedupMiddleware) Process(rec *types.Record) (*types.Record, error) {
	val := field(rec, m.key)
	if val == "" {
		// Records without a key cannot be compared.
		return rec, nil
	}
	if m.key == types.ColLink {
		val = CanonicalLink(val)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.seen[val]; exists {
		return nil, nil
	}
	m.seen[val] = struct{}{}
	return rec, nil
}

// DefaultValueMiddleware fills empty columns with defaults.
type DefaultValueMiddleware struct {
	Defaults map[string]string
}

func (m *DefaultValueMiddleware) Name() string { return "default_values" }

func (m *DefaultValueMiddleware) Process(rec *types.Record) (*types.Record, error) {
	fields := textFields(rec)
	for key, def := range m.Defaults {
		if p, ok := fields[key]; ok {
			if *p == "" {
				*p = def
			}
			continue
		}
		if rec.Extra[key] == "" {
			rec.SetExtra(key, def)
		}
	}
	return rec, nil
}

// TrimMiddleware trims whitespace from all text columns.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(rec *types.Record) (*types.Record, error) {
	for _, p := range textFields(rec) {
		*p = strings.TrimSpace(*p)
	}
	for k, v := range rec.Extra {
		rec.Extra[k] = strings.TrimSpace(v)
	}
	return rec, nil
}
