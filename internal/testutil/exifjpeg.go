// Package testutil builds small image fixtures for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// TIFF field types.
const (
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeSRational = 10
)

const exifIFDPointer = 0x8769

// Entry is a single EXIF field written into the Exif sub-IFD.
type Entry struct {
	ID   uint16
	Type uint16
	Num  int32
	Den  int32
}

// Short returns an unsigned 16-bit entry, e.g. ISO speed.
func Short(id uint16, v uint16) Entry { return Entry{ID: id, Type: typeShort, Num: int32(v)} }

// Rational returns an unsigned rational entry, e.g. exposure time.
func Rational(id uint16, num, den uint32) Entry {
	return Entry{ID: id, Type: typeRational, Num: int32(num), Den: int32(den)}
}

// SRational returns a signed rational entry, e.g. brightness.
func SRational(id uint16, num, den int32) Entry {
	return Entry{ID: id, Type: typeSRational, Num: num, Den: den}
}

// ExifTIFF encodes a little-endian TIFF stream whose IFD0 points at an Exif
// sub-IFD holding entries.
func ExifTIFF(entries ...Entry) []byte {
	le := binary.LittleEndian
	var b bytes.Buffer

	b.WriteString("II")
	_ = binary.Write(&b, le, uint16(42))
	_ = binary.Write(&b, le, uint32(8))

	// IFD0: a single pointer to the Exif sub-IFD.
	subIFD := uint32(8 + 2 + 12 + 4)
	_ = binary.Write(&b, le, uint16(1))
	_ = binary.Write(&b, le, uint16(exifIFDPointer))
	_ = binary.Write(&b, le, uint16(typeLong))
	_ = binary.Write(&b, le, uint32(1))
	_ = binary.Write(&b, le, subIFD)
	_ = binary.Write(&b, le, uint32(0))

	dataOff := subIFD + 2 + 12*uint32(len(entries)) + 4
	var data bytes.Buffer

	_ = binary.Write(&b, le, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(&b, le, e.ID)
		_ = binary.Write(&b, le, e.Type)
		_ = binary.Write(&b, le, uint32(1))
		switch e.Type {
		case typeShort:
			_ = binary.Write(&b, le, uint16(e.Num))
			_ = binary.Write(&b, le, uint16(0))
		case typeRational, typeSRational:
			_ = binary.Write(&b, le, dataOff+uint32(data.Len()))
			_ = binary.Write(&data, le, e.Num)
			_ = binary.Write(&data, le, e.Den)
		default:
			_ = binary.Write(&b, le, uint32(e.Num))
		}
	}
	_ = binary.Write(&b, le, uint32(0))
	b.Write(data.Bytes())

	return b.Bytes()
}

// ExifJPEG returns a JPEG byte stream made of SOI, an APP1 Exif segment and EOI.
// It carries no pixel data; it exists to exercise metadata readers.
func ExifJPEG(entries ...Entry) []byte {
	payload := append([]byte("Exif\x00\x00"), ExifTIFF(entries...)...)

	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8})
	b.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&b, binary.BigEndian, uint16(len(payload)+2))
	b.Write(payload)
	b.Write([]byte{0xFF, 0xD9})
	return b.Bytes()
}

// PlainJPEG returns a JPEG byte stream without any APP1 segment.
func PlainJPEG() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x03, 0x00, 0xFF, 0xD9}
}

// WriteFile writes data to dir/name, creating parent directories, and returns the path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
