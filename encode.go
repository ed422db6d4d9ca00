package wealth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// DecodePortfolio reads a persisted portfolio.
// Missing collections decode as empty ones and a missing goal as DefaultGoal.
func DecodePortfolio(r io.Reader) (Portfolio, error) {
	var p Portfolio
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Portfolio{}, fmt.Errorf("cannot decode portfolio: %w", err)
	}
	if p.Accounts == nil {
		p.Accounts = []Account{}
	}
	if p.FixedDeposits == nil {
		p.FixedDeposits = []FixedDeposit{}
	}
	if p.History == nil {
		p.History = History{}
	}
	if !finite(p.WealthGoal) || p.WealthGoal <= 0 {
		p.WealthGoal = DefaultGoal
	}
	for i, a := range p.Accounts {
		p.Accounts[i] = a.Normalized()
	}
	return p, nil
}

// EncodePortfolio writes p as indented JSON.
func EncodePortfolio(w io.Writer, p Portfolio) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("cannot encode portfolio: %w", err)
	}
	return nil
}

// LoadPortfolio reads the portfolio stored at path.
// A missing file is an empty portfolio.
func LoadPortfolio(path string) (Portfolio, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("no state file, starting with an empty portfolio")
		return NewPortfolio(), nil
	}
	if err != nil {
		return Portfolio{}, fmt.Errorf("cannot open portfolio %q: %w", path, err)
	}
	defer f.Close()
	p, err := DecodePortfolio(f)
	if err != nil {
		return Portfolio{}, fmt.Errorf("cannot load %q: %w", path, err)
	}
	return p, nil
}

// SavePortfolio writes p to path, replacing the previous content atomically.
func SavePortfolio(path string, p Portfolio) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create state directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create temporary state file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()
	if err := EncodePortfolio(tmp, p); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cannot replace state file: %w", err)
	}
	return nil
}

// Store loads and saves the portfolio.
type Store interface {
	Load() (Portfolio, error)
	Save(Portfolio) error
}

// FileStore is a Store backed by a JSON file.
type FileStore struct {
	Path string
}

func (s FileStore) Load() (Portfolio, error) { return LoadPortfolio(s.Path) }
func (s FileStore) Save(p Portfolio) error   { return SavePortfolio(s.Path, p) }

// Guard serializes load, transition and save cycles over a Store: it is
// the single writer of the portfolio.
type Guard struct {
	mu    sync.Mutex
	store Store
}

// NewGuard returns a Guard over store. A Guard is returned as is.
func NewGuard(store Store) *Guard {
	if g, ok := store.(*Guard); ok {
		return g
	}
	return &Guard{store: store}
}

// Load returns the stored portfolio.
func (g *Guard) Load() (Portfolio, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.Load()
}

// Save stores p.
func (g *Guard) Save(p Portfolio) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.Save(p)
}

// Update applies fn to the stored portfolio and stores the result.
// When fn fails nothing is stored and the loaded portfolio is returned.
func (g *Guard) Update(fn func(Portfolio) (Portfolio, error)) (Portfolio, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.store.Load()
	if err != nil {
		return p, err
	}
	out, err := fn(p)
	if err != nil {
		return p, err
	}
	if err := g.store.Save(out); err != nil {
		return p, err
	}
	return out, nil
}
