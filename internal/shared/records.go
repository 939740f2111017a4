package shared

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// RecordMagic opens every serialized installer record.
const RecordMagic = "IZR1"

// EncodeRecord writes v as a single length-prefixed record of the given kind:
// the magic, a uint16 kind length, the kind, a uint32 payload length and the
// JSON payload. Integers are big-endian.
func EncodeRecord(w io.Writer, kind string, v any) error {
	if len(kind) > math.MaxUint16 {
		return fmt.Errorf("record kind too long: %d bytes", len(kind))
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("%s record too large: %d bytes", kind, len(payload))
	}
	var buf bytes.Buffer
	buf.Grow(len(RecordMagic) + 2 + len(kind) + 4 + len(payload))
	buf.WriteString(RecordMagic)
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(kind)))
	buf.WriteString(kind)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(payload)))
	buf.Write(payload)
	_, err = w.Write(buf.Bytes())
	return err
}

// DecodeRecord reads one record written by EncodeRecord into v. The record
// kind must match.
func DecodeRecord(r io.Reader, kind string, v any) error {
	magic := make([]byte, len(RecordMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return fmt.Errorf("read %s record magic: %w", kind, err)
	}
	if string(magic) != RecordMagic {
		return fmt.Errorf("%s record has bad magic %q", kind, magic)
	}
	var kindLen uint16
	if err := binary.Read(r, binary.BigEndian, &kindLen); err != nil {
		return fmt.Errorf("read %s record kind: %w", kind, err)
	}
	gotKind := make([]byte, kindLen)
	if _, err := io.ReadFull(r, gotKind); err != nil {
		return fmt.Errorf("read %s record kind: %w", kind, err)
	}
	if string(gotKind) != kind {
		return fmt.Errorf("expected %s record, found %s", kind, gotKind)
	}
	var payloadLen uint32
	if err := binary.Read(r, binary.BigEndian, &payloadLen); err != nil {
		return fmt.Errorf("read %s record length: %w", kind, err)
	}
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return fmt.Errorf("read %s record payload: %w", kind, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode %s record: %w", kind, err)
	}
	return nil
}
