package refdata

import "fmt"

// FormatError reports raw input text that is missing an expected header
// or a structurally required column. The whole parse is abandoned: a
// wrong header match risks silently parsing garbage as real data.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return "format error: " + e.Msg
}

// InvalidVersionError reports a version identifier outside the sane
// numeric range. It is surfaced to the caller, never silently clamped.
type InvalidVersionError struct {
	Version string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q", e.Version)
}
