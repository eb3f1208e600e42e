// Package scanner - Registry for scanner implementations
package scanner

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"recipe-cost/internal/errors"
	"recipe-cost/internal/logging"
)

// Registry manages scanner registration and lookup
type Registry interface {
	// Register adds a scanner to the registry
	Register(scanner Scanner) error

	// GetScanner returns a scanner by name
	GetScanner(name string) (Scanner, bool)

	// GetAll returns all registered scanners
	GetAll() []Scanner

	// DetectAndScan finds the appropriate scanner and scans the path
	DetectAndScan(ctx context.Context, path, format string) (*ScanResult, error)
}

// DefaultRegistry is the default scanner registry implementation
type DefaultRegistry struct {
	mu       sync.RWMutex
	scanners map[string]Scanner
	order    []string // maintains registration order for priority
}

// NewRegistry creates a new scanner registry
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		scanners: make(map[string]Scanner),
		order:    make([]string, 0),
	}
}

// Register adds a scanner to the registry
func (r *DefaultRegistry) Register(scanner Scanner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := scanner.Name()
	if _, exists := r.scanners[name]; exists {
		return fmt.Errorf("scanner already registered: %s", name)
	}

	r.scanners[name] = scanner
	r.order = append(r.order, name)
	return nil
}

// GetScanner returns a scanner by name
func (r *DefaultRegistry) GetScanner(name string) (Scanner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scanner, ok := r.scanners[name]
	return scanner, ok
}

// GetAll returns all registered scanners in registration order
func (r *DefaultRegistry) GetAll() []Scanner {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scanners := make([]Scanner, 0, len(r.order))
	for _, name := range r.order {
		if scanner, ok := r.scanners[name]; ok {
			scanners = append(scanners, scanner)
		}
	}
	return scanners
}

// DetectAndScan scans path with the named scanner, or with the first
// registered scanner that accepts the path when format is empty
func (r *DefaultRegistry) DetectAndScan(ctx context.Context, path, format string) (*ScanResult, error) {
	scanner, err := r.pick(path, format)
	if err != nil {
		return nil, err
	}

	result, err := scanner.Scan(ctx, path)
	if err != nil {
		return nil, err
	}

	logging.Info("dataset loaded",
		zap.String("scanner", scanner.Name()),
		zap.String("path", path),
		zap.Int("files", len(result.Files)),
		zap.Int("entries", len(result.Entries)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (r *DefaultRegistry) pick(path, format string) (Scanner, error) {
	if format != "" {
		scanner, ok := r.GetScanner(format)
		if !ok {
			return nil, errors.NotSupported("dataset format " + format)
		}
		return scanner, nil
	}

	for _, scanner := range r.GetAll() {
		if scanner.CanScan(path) {
			return scanner, nil
		}
	}
	return nil, errors.Newf(errors.TypeNotSupported, "no scanner found for dataset: %s", path)
}

// Global default registry
var defaultRegistry = NewRegistry()

// Register adds a scanner to the default registry
func Register(scanner Scanner) error {
	return defaultRegistry.Register(scanner)
}

// GetDefault returns the default registry
func GetDefault() *DefaultRegistry {
	return defaultRegistry
}
