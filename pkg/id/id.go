package id

import (
	"crypto/md5"
	"io"
	"strings"

	"github.com/gofrs/uuid"
)

// GenTraceID new random trace id for one ledger operation
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// TraceIDFrom deterministic trace id from parts
func TraceIDFrom(parts ...string) string {
	return UUIDFromString(strings.Join(parts, ":"))
}

// UUIDFromString new uuid string from string
func UUIDFromString(text string) string {
	h := md5.New()
	_, _ = io.WriteString(h, text)
	sum := h.Sum(nil)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum).String()
}

// IsUUID text is a canonical uuid
func IsUUID(text string) bool {
	_, err := uuid.FromString(text)
	return err == nil
}
