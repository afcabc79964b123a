// Package cache persists a finished report as a compact msgpack
// snapshot for fast reloading of large runs.
//
// The snapshot is a sequence of length-prefixed msgpack frames, one
// frame per record, in the same order the line-delimited form uses:
// header first, cases and results, terminal record last. Loading
// replays the frames through the ordinary report fold, so a snapshot
// can never bypass the stream invariants.
package cache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justapithecus/bowline/iox"
	"github.com/justapithecus/bowline/report"
)

// Frame size constants.
const (
	// MaxFrameSize is the maximum frame size (16 MiB), including the
	// length prefix.
	MaxFrameSize = 16 * 1024 * 1024
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
)

// ErrFrameTooLarge indicates a frame exceeding MaxFrameSize.
var ErrFrameTooLarge = errors.New("snapshot frame too large")

// ErrTruncated indicates a snapshot ending mid-frame.
var ErrTruncated = errors.New("truncated snapshot")

// Write encodes the report's record stream to w.
func Write(w io.Writer, rep *report.Report) error {
	for _, rec := range rep.Serializable() {
		var payload bytes.Buffer
		enc := msgpack.NewEncoder(&payload)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding snapshot record: %w", err)
		}
		if payload.Len() > MaxFrameSize-LengthPrefixSize {
			return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, payload.Len())
		}

		var prefix [LengthPrefixSize]byte
		binary.BigEndian.PutUint32(prefix[:], uint32(payload.Len()))
		if _, err := w.Write(prefix[:]); err != nil {
			return fmt.Errorf("writing snapshot frame: %w", err)
		}
		if _, err := w.Write(payload.Bytes()); err != nil {
			return fmt.Errorf("writing snapshot frame: %w", err)
		}
	}
	return nil
}

// WriteFile writes the report snapshot to path.
func WriteFile(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot %s: %w", path, err)
	}
	if err := Write(f, rep); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Read rebuilds a report from a snapshot stream by replaying its
// frames through the report fold.
func Read(r io.Reader) (*report.Report, error) {
	return report.FromInput(&frameSource{reader: r})
}

// ReadFile rebuilds a report from a snapshot file.
func ReadFile(path string) (*report.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer iox.DiscardClose(f)
	return Read(f)
}

// frameSource decodes length-prefixed msgpack frames into records.
type frameSource struct {
	reader io.Reader
}

func (s *frameSource) Next() (report.Record, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(s.reader, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: incomplete length prefix", ErrTruncated)
	}

	length := binary.BigEndian.Uint32(prefix[:])
	if length > MaxFrameSize-LengthPrefixSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, fmt.Errorf("%w: incomplete frame payload", ErrTruncated)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	dec.SetCustomStructTag("json")
	dec.SetMapDecoder(func(d *msgpack.Decoder) (any, error) {
		return d.DecodeMap()
	})

	var rec report.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding snapshot frame: %w", err)
	}
	return rec, nil
}
