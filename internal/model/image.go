package model

import "time"

// Image is the metadata record for a cover stored in the remote media
// store. RemoteID is the opaque object key assigned on upload and is
// required to delete the remote artifact later.
type Image struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	RemoteID  string    `json:"remote_id"`
	CreatedAt time.Time `json:"created_at"`
}
