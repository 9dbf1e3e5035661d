package importer

import (
	"io"
	"strings"

	"github.com/cryptotax-dev/cryptotax/internal/config"
	"github.com/cryptotax-dev/cryptotax/internal/model"
)

// Parser converts a gain/loss statement CSV into Disposals.
type Parser interface {
	Parse(r io.Reader) ([]model.Disposal, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers,
// configured by cfg.
func DefaultRegistry(cfg *config.Config) *Registry {
	r := NewRegistry()
	r.Register(NewCoinbaseParser(cfg))
	return r
}
