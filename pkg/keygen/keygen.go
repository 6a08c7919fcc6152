package keygen

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"time"
)

// New returns an opaque record identifier: the current millisecond timestamp
// in base36 followed by a random base36 suffix. Uniqueness is probabilistic;
// callers do not retry on collision.
func New() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to
		// the timestamp alone rather than returning an empty ID.
		return strconv.FormatInt(time.Now().UnixMilli(), 36)
	}
	suffix := binary.BigEndian.Uint64(b[:]) & 0xFFFFFFFFFFF // 44 random bits
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + strconv.FormatUint(suffix, 36)
}
