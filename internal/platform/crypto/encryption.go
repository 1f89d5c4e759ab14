package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var (
	ErrKeyLength        = errors.New("DATA_ENCRYPTION_KEY must be 32 bytes after decoding")
	ErrCiphertextLength = errors.New("ciphertext too short")
)

// Service seals sensitive employee fields with AES-256-GCM. A Service
// built from an empty key is a passthrough.
type Service struct {
	aead cipher.AEAD
}

func New(key string) (*Service, error) {
	if key == "" {
		return &Service{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) != 32 {
		return nil, ErrKeyLength
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Service{aead: aead}, nil
}

func (s *Service) Configured() bool {
	return s != nil && s.aead != nil
}

func (s *Service) EncryptString(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	if !s.Configured() {
		return []byte(value), nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, []byte(value), nil), nil
}

func (s *Service) DecryptString(ciphertext []byte) (string, error) {
	if len(ciphertext) == 0 {
		return "", nil
	}
	if !s.Configured() {
		return string(ciphertext), nil
	}
	size := s.aead.NonceSize()
	if len(ciphertext) < size {
		return "", ErrCiphertextLength
	}
	plain, err := s.aead.Open(nil, ciphertext[:size], ciphertext[size:], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// Seal returns the pair of column values for a sensitive field: the
// plaintext column (nil once encryption is on) and the ciphertext column.
func (s *Service) Seal(value string) (plain any, sealed []byte, err error) {
	if value == "" {
		return nil, nil, nil
	}
	if !s.Configured() {
		return value, nil, nil
	}
	sealed, err = s.EncryptString(value)
	if err != nil {
		return nil, nil, err
	}
	return nil, sealed, nil
}

// Open reverses Seal. Rows written before encryption was enabled still
// carry plaintext, which is returned as is.
func (s *Service) Open(sealed []byte, plain *string) string {
	fallback := ""
	if plain != nil {
		fallback = *plain
	}
	if !s.Configured() || len(sealed) == 0 {
		return fallback
	}
	value, err := s.DecryptString(sealed)
	if err != nil {
		return fallback
	}
	return value
}

func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
