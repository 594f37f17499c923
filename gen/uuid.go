package gen

import uuid "github.com/satori/go.uuid"

// NewUUID generates a new UUID for use as a row primary key.
func NewUUID() string {
	return uuid.NewV4().String()
}
