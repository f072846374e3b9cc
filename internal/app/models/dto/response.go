package dto

// SuccessResponse is returned by operations that have nothing else to say
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// OK is the shared success body
var OK = SuccessResponse{Success: true}
