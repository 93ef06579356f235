package feed

import "fmt"

// FormatError means the document is not well-formed markup or is neither
// RSS 2.0 nor Atom.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unrecognized feed format: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unrecognized feed format: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// InvalidFeedError means the format was recognized but required feed
// metadata is missing.
type InvalidFeedError struct {
	Reason string
}

func (e *InvalidFeedError) Error() string {
	return fmt.Sprintf("invalid feed: %s", e.Reason)
}

// EntryError wraps a failure while processing a single feed entry.
// Callers skip the entry; the rest of the feed is unaffected.
type EntryError struct {
	Link string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("failed to process entry %q: %v", e.Link, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }
