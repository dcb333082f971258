// Package store keeps program values in a SQLite database, addressed by
// content hash.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/quill/dist"
	"github.com/chazu/quill/hash"
	"github.com/chazu/quill/network"
	"github.com/chazu/quill/serialize"
)

var (
	// ErrNotFound indicates the requested hash is not stored.
	ErrNotFound = errors.New("value not found")
	// ErrCorrupt indicates a stored payload no longer matches its hash.
	ErrCorrupt = errors.New("stored value is corrupt")
)

// Looked up per call; the CLI configures the backend after init.
func logger() commonlog.Logger { return commonlog.GetLogger("quill.store") }

// Store is a content-addressed table of compressed canonical encodings.
// A Store is bound to one network: values are validated against its
// parameters when loaded.
type Store struct {
	db      *sql.DB
	dbPath  string
	network network.Params
	mu      sync.Mutex
}

// Open opens (creating if needed) the store at dbPath.
func Open(dbPath string, p network.Params) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS "values" (
		hash BLOB PRIMARY KEY,
		kind INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	logger().Debug("store opened", "path", dbPath, "network", p.Name)
	return &Store{db: db, dbPath: dbPath, network: p}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.dbPath }

// Put stores v and returns its hash. Storing a value twice is a no-op.
func (s *Store) Put(v serialize.CanonicalSerialize) (hash.Hash, error) {
	kind, err := hash.KindOf(v)
	if err != nil {
		return hash.Hash{}, err
	}
	payload, err := serialize.ToBytes(v, serialize.CompressYes)
	if err != nil {
		return hash.Hash{}, fmt.Errorf("encoding %s: %w", kind, err)
	}
	h := hash.SumBytes(kind, payload)
	return h, s.insert(h, kind, payload)
}

// PutEnvelope verifies e against the store's network and stores its payload.
func (s *Store) PutEnvelope(e *dist.Envelope) error {
	if _, err := dist.OpenAny(e, s.network); err != nil {
		return err
	}
	return s.insert(e.Hash, e.Kind, e.Payload)
}

func (s *Store) insert(h hash.Hash, kind hash.Kind, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO "values" (hash, kind, payload) VALUES (?, ?, ?)`,
		h[:], int(kind), payload,
	)
	if err != nil {
		return fmt.Errorf("saving value: %w", err)
	}
	logger().Debug("stored value", "hash", h.String(), "kind", kind.String())
	return nil
}

// Has reports whether h is stored.
func (s *Store) Has(h hash.Hash) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM "values" WHERE hash = ?`, h[:]).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying value: %w", err)
	}
	return n > 0, nil
}

// Raw returns the kind and compressed payload stored under h, after checking
// the payload still matches h.
func (s *Store) Raw(h hash.Hash) (hash.Kind, []byte, error) {
	var kind int
	var payload []byte
	err := s.db.QueryRow(`SELECT kind, payload FROM "values" WHERE hash = ?`, h[:]).Scan(&kind, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, fmt.Errorf("%w: %s", ErrNotFound, h)
		}
		return 0, nil, fmt.Errorf("querying value: %w", err)
	}
	if hash.SumBytes(hash.Kind(kind), payload) != h {
		return 0, nil, fmt.Errorf("%w: %s", ErrCorrupt, h)
	}
	return hash.Kind(kind), payload, nil
}

// Get loads and validates the value stored under h.
func (s *Store) Get(h hash.Hash) (serialize.CanonicalSerialize, error) {
	kind, payload, err := s.Raw(h)
	if err != nil {
		return nil, err
	}
	v, err := dist.DecodeKind(kind, s.network, payload, serialize.CompressYes, serialize.ValidateYes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, h, err)
	}
	logger().Debug("loaded value", "hash", h.String(), "kind", kind.String())
	return v, nil
}

// Envelope seals the value stored under h for shipping.
func (s *Store) Envelope(h hash.Hash) (*dist.Envelope, error) {
	v, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	return dist.Seal(s.network, v)
}

// Hashes lists the stored hashes of the given kind in hash order.
func (s *Store) Hashes(kind hash.Kind) ([]hash.Hash, error) {
	rows, err := s.db.Query(`SELECT hash FROM "values" WHERE kind = ? ORDER BY hash`, int(kind))
	if err != nil {
		return nil, fmt.Errorf("listing values: %w", err)
	}
	defer rows.Close()

	var out []hash.Hash
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("listing values: %w", err)
		}
		var h hash.Hash
		if len(b) != len(h) {
			return nil, fmt.Errorf("%w: hash of %d bytes", ErrCorrupt, len(b))
		}
		copy(h[:], b)
		out = append(out, h)
	}
	return out, rows.Err()
}
