package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes a zerolog.Logger based on the requested format.
// format can be "text" (human-friendly console) or "json" (structured).
func Setup(format string) zerolog.Logger {
	if format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

var (
	saltOnce sync.Once
	hashSalt string
)

// HashPHI returns a short salted digest of a patient identifier so log lines
// can be correlated without carrying the identifier itself. The salt is read
// once from LOG_HASH_SALT. Empty input stays empty.
func HashPHI(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	saltOnce.Do(func() {
		hashSalt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
	})
	h := sha256.New()
	if hashSalt != "" {
		h.Write([]byte(hashSalt))
	}
	h.Write([]byte(v))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}
