package domain

// Envelope is the {data, status} wrapper the upstream uses for every response.
// A missing data field decodes to the zero value of T and means "empty".
type Envelope[T any] struct {
	Data   T      `json:"data"`
	Status string `json:"status,omitempty"`
}
