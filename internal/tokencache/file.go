package tokencache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/turnover-report/internal/breezeway"
	"github.com/example/turnover-report/internal/internaltypes"
)

// FileStore keeps the token in a local file, sealed when a Sealer is set and
// as plain JSON otherwise.
type FileStore struct {
	path   string
	sealer *Sealer
}

func NewFileStore(path string, sealer *Sealer) *FileStore {
	return &FileStore{path: path, sealer: sealer}
}

func (s *FileStore) Load(_ context.Context) (breezeway.Token, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return breezeway.Token{}, internaltypes.ErrNotFound
	}
	if err != nil {
		return breezeway.Token{}, fmt.Errorf("tokencache: read %s: %w", s.path, err)
	}

	var t breezeway.Token
	if s.sealer != nil {
		err = s.sealer.Open(strings.TrimSpace(string(b)), &t)
	} else {
		err = json.Unmarshal(b, &t)
	}
	if err != nil {
		return breezeway.Token{}, fmt.Errorf("tokencache: decode %s: %w", s.path, err)
	}
	return t, nil
}

func (s *FileStore) Save(_ context.Context, t breezeway.Token) error {
	var (
		b   []byte
		err error
	)
	if s.sealer != nil {
		var sealed string
		sealed, err = s.sealer.Seal(t)
		b = []byte(sealed)
	} else {
		b, err = json.Marshal(t)
	}
	if err != nil {
		return fmt.Errorf("tokencache: encode: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("tokencache: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("tokencache: write: %w", err)
	}
	return os.Rename(tmp, s.path)
}
