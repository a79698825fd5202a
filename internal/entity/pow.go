package entity

// Challenge is a server-issued mission: the digest of Payload+nonce must
// start with Requirement (lowercase hex prefix).
type Challenge struct {
	Payload     string `json:"payload"`
	Requirement string `json:"requirement"`
}

// Candidate is a nonce together with the digest it produced.
type Candidate struct {
	Nonce  string `json:"nonce"`
	Digest string `json:"hash"`
}
