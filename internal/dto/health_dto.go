package dto

type StatusResponse struct {
	Status string `json:"status"`
}
