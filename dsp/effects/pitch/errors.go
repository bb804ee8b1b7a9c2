package pitch

import "errors"

var (
	// ErrBlockSize reports a session size that is not a power of two >= 4.
	ErrBlockSize = errors.New("pitch: block size must be a power of two >= 4")
	// ErrBlockSizeChanged reports a block whose length differs from the
	// session size locked in by the first call.
	ErrBlockSizeChanged = errors.New("pitch: block size changed after initialization")
	// ErrChannelMismatch reports inconsistent channel counts or lengths.
	ErrChannelMismatch = errors.New("pitch: channel layout mismatch")
	// ErrInvalidPitch reports a non-finite pitch control value.
	ErrInvalidPitch = errors.New("pitch: pitch control must be finite")
	// ErrInvalidState reports an unreadable persisted state record.
	ErrInvalidState = errors.New("pitch: invalid state record")
)
