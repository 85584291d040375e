package internal

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewMessageID generates an id for a transcript message: a base36
// millisecond timestamp plus a short random suffix. Ids only serve as
// list keys; ordering comes from insertion order, so collisions across
// processes are tolerable.
func NewMessageID() string {
	var suffix [4]byte
	_, _ = rand.Read(suffix[:])
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + hex.EncodeToString(suffix[:])
}
