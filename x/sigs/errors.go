package sigs

import "github.com/iov-one/openpayroll/errors"

// ErrInvalidSequence is returned when the signature nonce does not match
// the signer's state.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
