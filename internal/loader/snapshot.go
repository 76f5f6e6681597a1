package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"lukechampine.com/blake3"
)

// Snapshot file layout:
//
//	magic   [4]byte  "IDLE"
//	version uint8
//	size    uint32   uncompressed payload length, big endian
//	sum     [32]byte blake3 of the compressed payload
//	payload lz4 frame of a protobuf Struct
const (
	snapshotVersion = 1
	headerSize      = 4 + 1 + 4 + blake3Size
	blake3Size      = 32

	// maxSnapshotSize bounds decompression of corrupt or hostile files
	maxSnapshotSize = 64 << 20
)

var snapshotMagic = [4]byte{'I', 'D', 'L', 'E'}

var (
	ErrNotSnapshot = errors.New("not a snapshot file")
	ErrVersion     = errors.New("unsupported snapshot version")
	ErrChecksum    = errors.New("snapshot checksum mismatch")
)

// EncodeSnapshot serializes a snapshot map. Values must be the generic types
// produced by Simulator.Snapshot: float64, string, bool, []any and
// map[string]any.
func EncodeSnapshot(m map[string]any) ([]byte, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("failed to convert snapshot: %w", err)
	}
	raw, err := proto.MarshalOptions{Deterministic: true}.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	var payload bytes.Buffer
	zw := lz4.NewWriter(&payload)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress snapshot: %w", err)
	}

	sum := blake3.Sum256(payload.Bytes())
	out := make([]byte, 0, headerSize+payload.Len())
	out = append(out, snapshotMagic[:]...)
	out = append(out, snapshotVersion)
	out = binary.BigEndian.AppendUint32(out, uint32(len(raw)))
	out = append(out, sum[:]...)
	return append(out, payload.Bytes()...), nil
}

// DecodeSnapshot verifies and decodes bytes written by EncodeSnapshot
func DecodeSnapshot(data []byte) (map[string]any, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], snapshotMagic[:]) {
		return nil, ErrNotSnapshot
	}
	if v := data[4]; v != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, v)
	}
	size := binary.BigEndian.Uint32(data[5:9])
	if size > maxSnapshotSize {
		return nil, fmt.Errorf("snapshot too large: %d bytes", size)
	}
	payload := data[headerSize:]
	if sum := blake3.Sum256(payload); !bytes.Equal(sum[:], data[9:headerSize]) {
		return nil, ErrChecksum
	}

	raw, err := io.ReadAll(io.LimitReader(lz4.NewReader(bytes.NewReader(payload)), int64(size)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	if len(raw) != int(size) {
		return nil, fmt.Errorf("snapshot size mismatch: got %d, want %d", len(raw), size)
	}

	var st structpb.Struct
	if err := proto.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return st.AsMap(), nil
}

// SaveSnapshot writes a snapshot file, replacing any existing one atomically
func SaveSnapshot(path string, m map[string]any) error {
	data, err := EncodeSnapshot(m)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot file
func LoadSnapshot(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	m, err := DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
