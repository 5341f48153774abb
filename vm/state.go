package vm

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// snapshot is the CBOR form of a State. Only non-zero cells are stored.
type snapshot struct {
	Size         int              `cbor:"1,keyasint"` // 0 for a dynamic tape
	Pointer      int              `cbor:"2,keyasint"`
	BytesWritten int64            `cbor:"3,keyasint"`
	Steps        int64            `cbor:"4,keyasint"`
	Cells        map[int]*big.Int `cbor:"5,keyasint,omitempty"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalState serializes a State to canonical CBOR. Equal states always
// produce identical bytes.
func MarshalState(s *State) ([]byte, error) {
	snap := snapshot{
		Pointer:      s.Pointer,
		BytesWritten: s.BytesWritten,
		Steps:        s.Steps,
	}
	if !s.Tape.Dynamic() {
		snap.Size = s.Tape.Len()
	}
	for _, i := range s.Tape.Indices() {
		if snap.Cells == nil {
			snap.Cells = make(map[int]*big.Int)
		}
		snap.Cells[i] = s.Tape.Cell(i)
	}
	return cborEncMode.Marshal(&snap)
}

// UnmarshalState deserializes a State from CBOR bytes.
func UnmarshalState(data []byte) (*State, error) {
	var snap snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("vm: unmarshal state: %w", err)
	}
	if snap.Size < 0 {
		return nil, fmt.Errorf("vm: unmarshal state: negative tape size %d", snap.Size)
	}

	tape := NewTape(snap.Size)
	for i, v := range snap.Cells {
		if !tape.Dynamic() && (i < 0 || i >= snap.Size) {
			return nil, fmt.Errorf("vm: unmarshal state: cell %d outside tape of %d", i, snap.Size)
		}
		if v != nil {
			tape.ref(i).Set(v)
		}
	}

	return &State{
		Tape:         tape,
		Pointer:      snap.Pointer,
		BytesWritten: snap.BytesWritten,
		Steps:        snap.Steps,
	}, nil
}
