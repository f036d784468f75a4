package ukv

import (
	"math"

	"github.com/ukvdb/ukv/arena"
	"github.com/ukvdb/ukv/collection"
)

// DefaultCollection is the anonymous collection every DB starts with.
const DefaultCollection = collection.Default

// MissingValueLength is the sentinel a caller sees in a read tape's
// length header for a key that wasn't found.
const MissingValueLength = arena.MissingLength

// UnknownKey is a reserved value no caller may pass as a real key. The
// batch operations do not check for it; they accept it like any other key.
const UnknownKey int64 = math.MinInt64
