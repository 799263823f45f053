package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/riotkit-org/backup-repository/internal/storage/domain"
)

// sniffLength is how much of the content is buffered for mime detection.
const sniffLength = 3072

// DetectMimeType reads the head of r and returns the normalized mime type with a
// reader yielding the complete content again.
func DetectMimeType(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	return domain.NormalizeMimeType(detected.String()), io.MultiReader(bytes.NewReader(head), r), nil
}

// SizeCheck decides whether a content of the given size may be stored.
type SizeCheck func(size int64) bool

// ContentMeter counts and hashes content flowing through it. Reading fails with
// the file too big error once the size check rejects the amount read so far.
type ContentMeter struct {
	source io.Reader
	check  SizeCheck
	digest hash.Hash
	size   int64
	tooBig bool
}

// NewContentMeter wraps r.
func NewContentMeter(r io.Reader, check SizeCheck) *ContentMeter {
	return &ContentMeter{source: r, check: check, digest: sha256.New()}
}

// Read counts and hashes the bytes passing through, failing once the size check rejects the total.
func (m *ContentMeter) Read(p []byte) (int, error) {
	n, err := m.source.Read(p)
	if n > 0 {
		m.size += int64(n)
		if m.check != nil && !m.check(m.size) {
			m.tooBig = true
			return 0, domain.NewFileTooBigError()
		}
		m.digest.Write(p[:n])
	}
	return n, err
}

// Size returns the number of bytes read.
func (m *ContentMeter) Size() int64 {
	return m.size
}

// Sum returns the hex encoded SHA-256 of the content read.
func (m *ContentMeter) Sum() string {
	return hex.EncodeToString(m.digest.Sum(nil))
}

// TooBig reports whether reading stopped on the size limit.
func (m *ContentMeter) TooBig() bool {
	return m.tooBig
}
