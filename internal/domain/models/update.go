package models

// UpdateQuantityRequest is the body of updateQuantityById.php. Quantity is the
// stocked increment; the server adds it to the current stock.
type UpdateQuantityRequest struct {
	Data UpdateQuantityData `json:"data"`
}

// UpdateQuantityData identifies the medicine and the increment.
type UpdateQuantityData struct {
	ID       RecordID `json:"id"`
	Quantity int      `json:"quantity"`
}

// NewUpdateQuantityRequest wraps an increment for the given record.
func NewUpdateQuantityRequest(id RecordID, increment int) UpdateQuantityRequest {
	return UpdateQuantityRequest{Data: UpdateQuantityData{ID: id, Quantity: increment}}
}
