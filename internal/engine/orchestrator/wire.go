package orchestrator

import "encoding/json"

const (
	contentTypeJSON = "application/json; charset=utf-8"
	remotePath      = "/"

	codeSignatureMismatch = "SignatureDoesNotMatch"
)

// signedHeaders is the allow-list of headers covered by the signature.
var signedHeaders = []string{"content-type", "host", "x-date"}

type submitRequest struct {
	Prompt      string   `json:"prompt"`
	ImageURLs   []string `json:"image_urls"`
	ReqKey      string   `json:"req_key"`
	Scale       float64  `json:"scale"`
	Size        int      `json:"size"`
	MinRatio    float64  `json:"min_ratio"`
	MaxRatio    float64  `json:"max_ratio"`
	ForceSingle bool     `json:"force_single"`
}

type resultRequest struct {
	TaskID string `json:"task_id"`
	ReqKey string `json:"req_key"`
}

// envelope is the common shape of every remote API response.
type envelope struct {
	ResponseMetadata struct {
		RequestID string       `json:"RequestId"`
		Error     *remoteError `json:"Error,omitempty"`
	} `json:"ResponseMetadata"`
	Result *result `json:"Result"`
}

type remoteError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

type result struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type submitData struct {
	TaskID string `json:"task_id"`
}

type resultData struct {
	Status           string   `json:"status"`
	BinaryDataBase64 []string `json:"binary_data_base64"`
}
