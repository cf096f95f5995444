package internal

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// KeyStore holds the API credential on behalf of the gateway
type KeyStore interface {
	Store(value string) error
	Retrieve() (string, error)
	Exists() bool
}

// FileKeyStore keeps the credential in a single owner-only file
type FileKeyStore struct {
	path string
}

// NewFileKeyStore creates a key store backed by path
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

// Path returns the credential file location
func (f *FileKeyStore) Path() string {
	return f.path
}

// Store writes the credential atomically with 0600 permissions
func (f *FileKeyStore) Store(value string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return &StorageError{Path: dir, Op: "mkdir", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return &StorageError{Path: dir, Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StorageError{Path: tmpName, Op: "chmod", Err: err}
	}
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StorageError{Path: tmpName, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StorageError{Path: tmpName, Op: "sync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &StorageError{Path: tmpName, Op: "close", Err: err}
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		cleanup()
		return &StorageError{Path: f.path, Op: "rename", Err: err}
	}
	return nil
}

// Retrieve returns the stored credential or ErrCredentialNotFound
func (f *FileKeyStore) Retrieve() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrCredentialNotFound
		}
		return "", errors.Wrapf(err, "failed to read credential file %s", f.path)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", ErrCredentialNotFound
	}
	return value, nil
}

// Exists reports whether a non-empty credential is stored
func (f *FileKeyStore) Exists() bool {
	_, err := f.Retrieve()
	return err == nil
}
