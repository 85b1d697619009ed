package correlations

import (
	"time"

	"github.com/zeebo/blake3"
)

// IDSize is the width of the track id field.
const IDSize = 16

// instantLayout renders session instants at millisecond precision in UTC.
const instantLayout = "2006-01-02T15:04:05.000Z07:00"

// trackIDKey is the BLAKE3 key of the track id domain: the ASCII name, zero-padded to 32
// bytes. Changing it changes every track id.
var trackIDKey = domainKey("stb.telemetry.track-id.v1")

func domainKey(name string) [32]byte {
	var key [32]byte
	copy(key[:], name)
	return key
}

// Compute derives the track id that joins viewing events about the same programme within one
// application session. It reads no clock and no randomness.
func Compute(title string, appSessionStart time.Time) []byte {
	h, err := blake3.NewKeyed(trackIDKey[:])
	if err != nil {
		panic("correlations: invalid track id key: " + err.Error())
	}
	_, _ = h.Write([]byte(title))
	_, _ = h.Write([]byte(appSessionStart.UTC().Format(instantLayout)))
	return h.Sum(nil)[:IDSize]
}
