// Package tokencache persists the API access token between runs.
package tokencache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/hkdf"
)

const sealName = "breezeway_token"

// Sealer encrypts and authenticates cached tokens. Both securecookie keys are
// derived from one secret.
type Sealer struct {
	sc *securecookie.SecureCookie
}

func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("tokencache: empty secret")
	}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("turnover-report token cache"))
	hashKey := make([]byte, 64)
	blockKey := make([]byte, 32)
	if _, err := io.ReadFull(kdf, hashKey); err != nil {
		return nil, fmt.Errorf("tokencache: derive keys: %w", err)
	}
	if _, err := io.ReadFull(kdf, blockKey); err != nil {
		return nil, fmt.Errorf("tokencache: derive keys: %w", err)
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.SetSerializer(securecookie.JSONEncoder{})
	// expiry is carried in the token itself
	sc.MaxAge(0)
	sc.MaxLength(0)
	return &Sealer{sc: sc}, nil
}

func (s *Sealer) Seal(v any) (string, error) {
	return s.sc.Encode(sealName, v)
}

func (s *Sealer) Open(sealed string, dst any) error {
	return s.sc.Decode(sealName, sealed, dst)
}
