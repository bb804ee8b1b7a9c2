package pitch

import (
	"encoding/binary"
	"fmt"
	"math"
)

// stateTag identifies version 1 of the persisted engine state.
var stateTag = [4]byte{'P', 'V', 'S', '1'}

const stateSize = len(stateTag) + 8

// MarshalBinary encodes the pitch control as a little-endian record.
func (e *Engine) MarshalBinary() ([]byte, error) {
	buf := make([]byte, stateSize)
	copy(buf, stateTag[:])
	binary.LittleEndian.PutUint64(buf[len(stateTag):], math.Float64bits(e.target))

	return buf, nil
}

// UnmarshalBinary restores a record written by [Engine.MarshalBinary]. The
// restored pitch control applies immediately, without smoothing.
func (e *Engine) UnmarshalBinary(data []byte) error {
	if len(data) != stateSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidState, len(data), stateSize)
	}

	if [4]byte(data[:len(stateTag)]) != stateTag {
		return fmt.Errorf("%w: unknown tag %q", ErrInvalidState, data[:len(stateTag)])
	}

	pitch := math.Float64frombits(binary.LittleEndian.Uint64(data[len(stateTag):]))
	if err := e.SnapPitchControl(pitch); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	return nil
}
