package dto

// CreateNoteRequest represents a request to attach a note to a client
type CreateNoteRequest struct {
	Content        string `json:"content" binding:"required"`
	IsClientFacing bool   `json:"is_client_facing"`
}
