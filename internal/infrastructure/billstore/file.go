package billstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/shoplist/backend/internal/domain"
)

// billIDPattern keeps ids safe to use in file names
var billIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// FileStore persists bills as files under a single directory, one JSON
// metadata file per bill plus the rendered output per format. It mirrors the
// demo's generated-bills folder rather than a database.
type FileStore struct {
	dir string
}

// NewFileStore creates the bills directory if needed and returns the store
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "generated_bills"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating bills directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the bill metadata and, for non-JSON formats, the rendered output
func (s *FileStore) Save(ctx context.Context, bill *domain.Bill, rendered []byte, format string) error {
	if bill == nil || !billIDPattern.MatchString(bill.ID) {
		return domain.ErrInvalidRequest
	}

	meta, err := json.MarshalIndent(bill, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bill %s: %w", bill.ID, err)
	}
	if err := os.WriteFile(s.path(bill.ID, "json"), meta, 0o644); err != nil {
		return fmt.Errorf("writing bill %s: %w", bill.ID, err)
	}

	if format != "json" && len(rendered) > 0 {
		if err := os.WriteFile(s.path(bill.ID, format), rendered, 0o644); err != nil {
			return fmt.Errorf("writing rendered bill %s.%s: %w", bill.ID, format, err)
		}
	}
	return nil
}

// Load reads a bill's metadata by id
func (s *FileStore) Load(ctx context.Context, billID string) (*domain.Bill, error) {
	if !billIDPattern.MatchString(billID) {
		return nil, domain.ErrInvalidRequest
	}

	data, err := os.ReadFile(s.path(billID, "json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrBillNotFound
		}
		return nil, fmt.Errorf("reading bill %s: %w", billID, err)
	}

	var bill domain.Bill
	if err := json.Unmarshal(data, &bill); err != nil {
		return nil, fmt.Errorf("decoding bill %s: %w", billID, err)
	}
	return &bill, nil
}

// LoadRendered reads the rendered output of a bill in the given format
func (s *FileStore) LoadRendered(ctx context.Context, billID, format string) ([]byte, error) {
	if !billIDPattern.MatchString(billID) {
		return nil, domain.ErrInvalidRequest
	}

	data, err := os.ReadFile(s.path(billID, format))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrBillNotFound
		}
		return nil, fmt.Errorf("reading rendered bill %s.%s: %w", billID, format, err)
	}
	return data, nil
}

func (s *FileStore) path(billID, format string) string {
	return filepath.Join(s.dir, fmt.Sprintf("bill_%s.%s", billID, format))
}
