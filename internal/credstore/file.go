package credstore

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	dErrors "github.com/BenyThomas/mtm-sub002/pkg/domain-errors"
)

const (
	credentialsFile = "credentials"
	keyFile         = "credentials.key"

	keySize   = 32
	nonceSize = 24
)

var errUnavailable = dErrors.New(dErrors.CodeInternal, "credential directory unavailable")

// File is the durable scope: a key/value map persisted as a secretbox-sealed
// JSON document under dir. The sealing key is a random 32-byte keyfile next to
// it, both mode 0600, so tokens at rest are not plaintext.
//
// A File that fails to initialize (unwritable directory, corrupt key) degrades
// to an always-absent scope: Get returns false and Set returns an error, but
// nothing panics. This mirrors running the original client in a context with
// no persistent storage at all.
type File struct {
	mu     sync.Mutex
	dir    string
	key    [keySize]byte
	vals   map[string]string
	broken bool
}

// NewFile opens (or creates) the durable scope rooted at dir.
func NewFile(dir string) *File {
	f := &File{dir: dir, vals: make(map[string]string)}
	if err := f.init(); err != nil {
		f.broken = true
	}
	return f
}

func (f *File) init() error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return err
	}
	if err := f.loadKey(); err != nil {
		return err
	}
	return f.load()
}

func (f *File) loadKey() error {
	path := filepath.Join(f.dir, keyFile)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		raw = make([]byte, keySize)
		if _, err := rand.Read(raw); err != nil {
			return err
		}
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	if len(raw) != keySize {
		return errors.New("credential key has wrong size")
	}
	copy(f.key[:], raw)
	return nil
}

func (f *File) load() error {
	raw, err := os.ReadFile(filepath.Join(f.dir, credentialsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(raw) < nonceSize {
		// Corrupt file; treat stored credentials as absent rather than failing.
		return nil
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &f.key)
	if !ok {
		return nil
	}
	vals := make(map[string]string)
	if err := json.Unmarshal(plain, &vals); err != nil {
		return nil
	}
	f.vals = vals
	return nil
}

func (f *File) persist() error {
	plain, err := json.Marshal(f.vals)
	if err != nil {
		return err
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return err
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &f.key)
	return os.WriteFile(filepath.Join(f.dir, credentialsFile), sealed, 0o600)
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return "", false
	}
	v, ok := f.vals[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return errUnavailable
	}
	f.vals[key] = value
	return f.persist()
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return nil
	}
	if _, ok := f.vals[key]; !ok {
		return nil
	}
	delete(f.vals, key)
	return f.persist()
}

// DefaultDir resolves the durable scope location: override when non-empty,
// else <user config dir>/finadmin.
func DefaultDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "finadmin"), nil
}
