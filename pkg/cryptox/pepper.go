package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Argon2id parameters (OWASP minimum recommendation).
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	pepperMu   sync.Mutex
	pepper     string
	pepperFile = "pepper.key"
)

// SetPepperPath sets where the pepper is read from (or created on first use).
// A previously loaded pepper is forgotten.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// GetPepper returns the server-wide secret appended to every password before
// hashing. Losing the pepper file invalidates every stored password hash,
// so failing to load it is fatal.
func GetPepper() string {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepper != "" {
		return pepper
	}

	var err error
	pepper, err = loadOrGeneratePepper(pepperFile)
	if err != nil {
		slog.Error("failed to load or generate pepper", slog.Any("err", err), slog.String("path", pepperFile))
		os.Exit(1)
	}
	return pepper
}

func loadOrGeneratePepper(path string) (string, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(b) == 0 {
			return "", errors.New("cryptox: pepper file is empty")
		}
		return string(b), nil
	case !errors.Is(err, os.ErrNotExist):
		return "", err
	}

	raw := make([]byte, keyLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(p), 0o600); err != nil {
		return "", err
	}
	return p, nil
}
