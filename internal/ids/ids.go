// Package ids generates identifiers for durable entities. Short
// base-36 ids are used for rows an operator might read/type (games,
// players, cities, units), mirroring services/gormbe/genid.go's
// randid() scheme in the teacher. Session and idempotency tokens use
// github.com/google/uuid instead, since those are opaque client-held
// values rather than human-facing row keys.
package ids

import (
	"math/rand"
	"strconv"

	"github.com/google/uuid"
)

const idBase = 36

// New returns a random 12-character base-36 id, prefixed with cls + "_"
// the way the teacher's GenId.Class scheme tags rows by kind (e.g.
// "city_03f09ar2qk7z").
func New(cls string) string {
	return cls + "_" + randBase36(12)
}

func randBase36(n int) string {
	max := int64(1)
	for i := 0; i < n; i++ {
		max *= idBase
	}
	v := rand.Int63n(max)
	s := strconv.FormatInt(v, idBase)
	for len(s) < n {
		s = "0" + s
	}
	return s
}

// NewToken returns an opaque random token suitable for session ids and
// idempotency keys.
func NewToken() string {
	return uuid.NewString()
}
