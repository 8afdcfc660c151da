// Package image serializes compiled programs and simulation snapshots.
//
// Both are CBOR documents in canonical encoding, tagged with a magic
// string and a format version.
package image

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/ezrec/koala/asm"
	"github.com/ezrec/koala/grid"
	"github.com/ezrec/koala/isa"
	"github.com/ezrec/koala/sim"
	"github.com/ezrec/koala/translate"
)

var f = translate.From

const (
	PROGRAM_MAGIC  = "KOALA"
	SNAPSHOT_MAGIC = "KOALA-SNAPSHOT"
	VERSION        = 1
)

var (
	ErrMagic   = errors.New(f("not a koala image"))
	ErrVersion = errors.New(f("unsupported image version"))
	ErrCorrupt = errors.New(f("image is inconsistent"))
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

func check(magic string, version uint, want string) error {
	if magic != want {
		return ErrMagic
	}
	if version != VERSION {
		return fmt.Errorf("%w: %d", ErrVersion, version)
	}
	return nil
}

type programImage struct {
	Magic   string       `cbor:"magic"`
	Version uint         `cbor:"version"`
	Code    []uint32     `cbor:"code"`
	State   []int32      `cbor:"state"`
	Meta    []int32      `cbor:"meta"`
	Width   int          `cbor:"width"`
	Height  int          `cbor:"height"`
	Rules   []*asm.Rule  `cbor:"rules"`
	Opcodes []asm.Opcode `cbor:"opcodes"`
}

type snapshotImage struct {
	Magic   string  `cbor:"magic"`
	Version uint    `cbor:"version"`
	Frame   int32   `cbor:"frame"`
	Width   int     `cbor:"width"`
	Height  int     `cbor:"height"`
	State   []int32 `cbor:"state"`
}

// MarshalProgram serializes a Program to CBOR bytes.
func MarshalProgram(prog *asm.Program) ([]byte, error) {
	img := programImage{
		Magic:   PROGRAM_MAGIC,
		Version: VERSION,
		Code:    prog.Binary(),
		State:   prog.State,
		Meta:    prog.Meta,
		Width:   prog.Width,
		Height:  prog.Height,
		Opcodes: prog.Opcodes,
	}
	for _, name := range prog.Order {
		img.Rules = append(img.Rules, prog.Rules[name])
	}
	return cborEncMode.Marshal(&img)
}

// UnmarshalProgram deserializes a Program from CBOR bytes.
func UnmarshalProgram(data []byte) (*asm.Program, error) {
	var img programImage
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("image: unmarshal program: %w", err)
	}
	if err := check(img.Magic, img.Version, PROGRAM_MAGIC); err != nil {
		return nil, fmt.Errorf("image: unmarshal program: %w", err)
	}

	size := img.Width * img.Height * grid.RECORD_WORDS
	if len(img.State) != size || len(img.Meta) != size {
		return nil, fmt.Errorf("image: unmarshal program: %w", ErrCorrupt)
	}

	prog := &asm.Program{
		Code:    make([]isa.Code, len(img.Code)),
		State:   img.State,
		Meta:    img.Meta,
		Width:   img.Width,
		Height:  img.Height,
		Rules:   make(map[string]*asm.Rule, len(img.Rules)),
		Opcodes: img.Opcodes,
	}
	for n, word := range img.Code {
		prog.Code[n] = isa.Code(word)
	}
	for _, rule := range img.Rules {
		if rule == nil || prog.Rules[rule.Name] != nil {
			return nil, fmt.Errorf("image: unmarshal program: %w", ErrCorrupt)
		}
		prog.Rules[rule.Name] = rule
		prog.Order = append(prog.Order, rule.Name)
	}

	return prog, nil
}

// MarshalSnapshot serializes a simulation Snapshot to CBOR bytes.
func MarshalSnapshot(snap sim.Snapshot) ([]byte, error) {
	img := snapshotImage{
		Magic:   SNAPSHOT_MAGIC,
		Version: VERSION,
		Frame:   snap.Frame,
		Width:   snap.Width,
		Height:  snap.Height,
		State:   snap.State,
	}
	return cborEncMode.Marshal(&img)
}

// UnmarshalSnapshot deserializes a simulation Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (sim.Snapshot, error) {
	var img snapshotImage
	if err := cbor.Unmarshal(data, &img); err != nil {
		return sim.Snapshot{}, fmt.Errorf("image: unmarshal snapshot: %w", err)
	}
	if err := check(img.Magic, img.Version, SNAPSHOT_MAGIC); err != nil {
		return sim.Snapshot{}, fmt.Errorf("image: unmarshal snapshot: %w", err)
	}
	if len(img.State) != img.Width*img.Height*grid.RECORD_WORDS {
		return sim.Snapshot{}, fmt.Errorf("image: unmarshal snapshot: %w", ErrCorrupt)
	}

	return sim.Snapshot{
		Frame:  img.Frame,
		Width:  img.Width,
		Height: img.Height,
		State:  img.State,
	}, nil
}

// WriteProgram writes a program image to w.
func WriteProgram(w io.Writer, prog *asm.Program) (err error) {
	data, err := MarshalProgram(prog)
	if err != nil {
		return
	}
	_, err = w.Write(data)
	return
}

// ReadProgram reads a program image from r.
func ReadProgram(r io.Reader) (prog *asm.Program, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}
	return UnmarshalProgram(data)
}

// WriteSnapshot writes a snapshot image to w.
func WriteSnapshot(w io.Writer, snap sim.Snapshot) (err error) {
	data, err := MarshalSnapshot(snap)
	if err != nil {
		return
	}
	_, err = w.Write(data)
	return
}

// ReadSnapshot reads a snapshot image from r.
func ReadSnapshot(r io.Reader) (snap sim.Snapshot, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}
	return UnmarshalSnapshot(data)
}
