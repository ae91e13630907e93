package custody

import (
	"encoding/json"
	"time"

	"github.com/iov-one/custody/errors"
)

// UnixTime represents a point in time as POSIX time, seconds precision.
// Block time is truncated to this precision when stored.
type UnixTime int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// UnmarshalJSON supports unmarshaling both as time.Time and from a number.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil {
		*t = UnixTime(unix)
		return nil
	}
	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		*t = AsUnixTime(stdtime)
		return nil
	}
	return errors.Wrap(errors.ErrInput, "invalid time format")
}

// String returns the usual string representation of this time as the
// time.Time structure would.
func (t UnixTime) String() string {
	return t.Time().Format(time.RFC3339)
}
