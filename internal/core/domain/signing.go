package domain

// SigningContext is the immutable per-call input of the request signer.
type SigningContext struct {
	Method string
	Path   string
	// Query maps each parameter to its values. A nil slice renders as "key=".
	Query map[string][]string
	// Headers are matched case-insensitively.
	Headers map[string]string
	Region  string
	Service string

	AccessKeyID string
	SecretKey   string

	// Body is hashed unless BodyHash is set.
	Body []byte
	// BodyHash overrides the computed body hash, e.g. when the body is not signed.
	BodyHash string
	// SignedHeaders restricts the signed headers. Nil means every non-ignored header is signed.
	// x-date and host are always included when present.
	SignedHeaders []string
}
