// Package bus implements in-process, synchronous event dispatch to domain commands.
package bus

import (
	"fmt"

	"github.com/google/uuid"
)

// EventKey identifies a domain event. The set of keys is closed: add new keys,
// never change the meaning of an existing one.
type EventKey string

const (
	// StorageUploadedOK is published after an uploaded file was stored and its metadata committed.
	StorageUploadedOK EventKey = "storage.uploaded_ok"
)

// Payload is the strongly typed body of an event.
type Payload interface {
	// Key returns the event key the payload belongs to.
	Key() EventKey
	// Validate checks the payload shape. A failure is a publisher bug.
	Validate() error
}

// StorageUploadedPayload describes a completed upload.
type StorageUploadedPayload struct {
	// TokenID is the token that performed the upload.
	TokenID  uuid.UUID
	FileID   uuid.UUID
	Filename string
}

// Key returns StorageUploadedOK.
func (p StorageUploadedPayload) Key() EventKey {
	return StorageUploadedOK
}

// Validate requires the token ID, file ID and filename.
func (p StorageUploadedPayload) Validate() error {
	if p.TokenID == uuid.Nil {
		return fmt.Errorf("token id is required")
	}
	if p.FileID == uuid.Nil {
		return fmt.Errorf("file id is required")
	}
	if p.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	return nil
}
