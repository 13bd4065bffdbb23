package domain

// RemoteRequest is one signed call to the remote generation API.
type RemoteRequest struct {
	Method  string
	Path    string
	Query   map[string][]string
	Headers map[string]string
	Body    []byte
}

// RemoteResponse is the raw answer of the remote generation API.
type RemoteResponse struct {
	StatusCode int
	Body       []byte
}
