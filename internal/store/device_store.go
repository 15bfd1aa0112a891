package store

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"seedlink/internal/crypto"
)

// DeviceKeyFilename is the sealed owner device key inside the store directory.
const DeviceKeyFilename = "device_key.enc"

// DeviceKeyFileStore persists the owner device key, sealed under a passphrase.
type DeviceKeyFileStore struct {
	dir    string
	params scryptParams
	mu     sync.Mutex
}

// NewDeviceKeyFileStore returns a store rooted at dir.
func NewDeviceKeyFileStore(dir string) *DeviceKeyFileStore {
	return &DeviceKeyFileStore{dir: dir, params: defaultScrypt()}
}

func (s *DeviceKeyFileStore) path() string { return filepath.Join(s.dir, DeviceKeyFilename) }

// Save seals key and atomically replaces the key file.
func (s *DeviceKeyFileStore) Save(passphrase string, key *crypto.KeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	der, err := x509.MarshalECPrivateKey(key.Private())
	if err != nil {
		return fmt.Errorf("store: encode device key: %w", err)
	}
	defer crypto.Wipe(der)

	blob, err := seal(passphrase, der, s.params)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return writeFile(s.path(), blob, 0o600)
}

// Load opens the key file. A missing file yields (nil, nil).
func (s *DeviceKeyFileStore) Load(passphrase string) (*crypto.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := readFile(s.path())
	if err != nil || blob == nil {
		return nil, err
	}
	der, err := open(passphrase, blob)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(der)

	priv, err := x509.ParseECPrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("store: decode device key: %w", err)
	}
	if priv.Curve != crypto.Curve() {
		return nil, errors.New("store: device key is not on P-256")
	}
	return crypto.NewKeyPair(priv), nil
}

// LoadOrCreate returns the stored key, generating and saving one if absent.
func (s *DeviceKeyFileStore) LoadOrCreate(passphrase string) (*crypto.KeyPair, error) {
	key, err := s.Load(passphrase)
	if err != nil || key != nil {
		return key, err
	}
	key, err = crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	if err := s.Save(passphrase, key); err != nil {
		return nil, err
	}
	return key, nil
}
