package phh

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/lox/pokerrooms/internal/fileutil"
)

// Extension is the file extension for a single hand
const Extension = ".phh"

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errors.New("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// Decode reads one hand from r
func Decode(r io.Reader) (*HandHistory, error) {
	var hand HandHistory
	if _, err := toml.NewDecoder(r).Decode(&hand); err != nil {
		return nil, fmt.Errorf("phh: %w", err)
	}
	return &hand, nil
}

// DecodeFile reads one hand from a .phh file
func DecodeFile(path string) (*HandHistory, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Sink receives finished hands
type Sink interface {
	WriteHand(hand *HandHistory) error
}

// DirSink writes every hand to its own file named after the hand ID
type DirSink struct {
	Dir string
}

// NewDirSink creates dir if needed
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("phh: creating %s: %w", dir, err)
	}
	return &DirSink{Dir: dir}, nil
}

// WriteHand encodes hand and writes it atomically, so readers never see half a file
func (s *DirSink) WriteHand(hand *HandHistory) error {
	if hand == nil || hand.HandID == "" {
		return errors.New("phh: hand has no ID")
	}
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(s.Path(hand.HandID), buf.Bytes(), 0o644)
}

// Path returns where the hand with id is stored
func (s *DirSink) Path(id string) string {
	return filepath.Join(s.Dir, filepath.Base(id)+Extension)
}
