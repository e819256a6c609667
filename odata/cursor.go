package odata

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	// DirectionForward resumes after the cursor position.
	DirectionForward = "fwd"
	// DirectionBackward resumes before the cursor position.
	DirectionBackward = "bwd"

	cursorVersion = 1
)

// CursorV1 is an opaque pagination token. Keys hold the canonical string
// encodings of the boundary row's sort key values, in sort key order.
type CursorV1 struct {
	Keys          []string
	Dir           SortDir
	SortSignature string
	FilterHash    string
	Direction     string
}

type cursorWire struct {
	V int      `json:"v"`
	K []string `json:"k"`
	O string   `json:"o"`
	S string   `json:"s"`
	F string   `json:"f,omitempty"`
	D string   `json:"d"`
}

// Encode serializes the cursor to its URL-safe wire form.
func (c CursorV1) Encode() (string, error) {
	wire := cursorWire{
		V: cursorVersion,
		K: c.Keys,
		O: string(c.Dir),
		S: c.SortSignature,
		F: c.FilterHash,
		D: c.Direction,
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("encoding cursor: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeCursor parses and validates a wire token. The token is opaque to
// callers, so every malformed shape maps onto ErrInvalidCursor.
func DecodeCursor(token string) (CursorV1, error) {
	payload, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return CursorV1{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var wire cursorWire

	if err := json.Unmarshal(payload, &wire); err != nil {
		return CursorV1{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	if wire.V != cursorVersion {
		return CursorV1{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidCursor, wire.V)
	}

	if len(wire.K) == 0 {
		return CursorV1{}, fmt.Errorf("%w: missing key values", ErrInvalidCursor)
	}

	dir := SortDir(wire.O)
	if dir != Asc && dir != Desc {
		return CursorV1{}, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidCursor, wire.O)
	}

	if wire.D != DirectionForward && wire.D != DirectionBackward {
		return CursorV1{}, fmt.Errorf("%w: unknown paging direction %q", ErrInvalidCursor, wire.D)
	}

	order, err := OrderByFromSignedTokens(wire.S)
	if err != nil {
		return CursorV1{}, err
	}

	if len(order) != len(wire.K) {
		return CursorV1{}, fmt.Errorf("%w: %d key values for %d sort fields", ErrInvalidCursor, len(wire.K), len(order))
	}

	return CursorV1{
		Keys:          wire.K,
		Dir:           dir,
		SortSignature: wire.S,
		FilterHash:    wire.F,
		Direction:     wire.D,
	}, nil
}

// Order reconstructs the sort keys captured when the cursor was issued.
func (c CursorV1) Order() (OrderBy, error) {
	return OrderByFromSignedTokens(c.SortSignature)
}

// Validate checks the cursor against the filter fingerprint of the
// current request. Any drift means the caller changed the filter between
// pages, which would make the boundary meaningless.
func (c CursorV1) Validate(filterHash string) error {
	if c.FilterHash != filterHash {
		return fmt.Errorf("%w: cursor was issued under a different filter", ErrFilterMismatch)
	}

	return nil
}
