package session

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dayanaadylkhanova/pow-miner/internal/entity"
)

// Variant describes one shape of the mission/claim protocol. The session
// loop is shared; only these capabilities differ.
type Variant struct {
	Name    string
	BaseURL string

	MissionPath string
	ClaimPath   string
	RecordsPath string
	AccountPath string

	// ChainPowID forwards the server's rotating pow_id with each claim.
	ChainPowID bool
	// SeedFromRecords takes the first pow-record as pow_id before mining.
	SeedFromRecords bool
	// BarePayload accepts a mission result that is the payload string
	// itself; FixedRequirement then applies.
	BarePayload      bool
	FixedRequirement string
	// ClaimWithHash sends the digest next to the nonce.
	ClaimWithHash bool
}

func V1() Variant {
	return Variant{
		Name:             "v1",
		BaseURL:          "https://blockjoker.org/api/v1",
		MissionPath:      "/missions",
		ClaimPath:        "/missions/nonce",
		RecordsPath:      "/missions/pow-records",
		AccountPath:      "/accounts",
		BarePayload:      true,
		FixedRequirement: "0000",
		ClaimWithHash:    true,
	}
}

func V2() Variant {
	return Variant{
		Name:            "v2",
		BaseURL:         "https://blockjoker.org/api/v2",
		MissionPath:     "/missions",
		ClaimPath:       "/missions/nonce",
		RecordsPath:     "/missions/pow-records",
		AccountPath:     "/accounts",
		ChainPowID:      true,
		SeedFromRecords: true,
	}
}

func VariantByVersion(version int) (Variant, error) {
	switch version {
	case 1:
		return V1(), nil
	case 2:
		return V2(), nil
	default:
		return Variant{}, fmt.Errorf("unknown protocol version %d", version)
	}
}

type envelope struct {
	Result json.RawMessage `json:"result"`
}

type missionResult struct {
	Payload     *string `json:"payload"`
	Requirement *string `json:"requirement"`
	Require     *string `json:"require"`
	PowID       string  `json:"pow_id"`
}

type powRecord struct {
	PowID string `json:"pow_id"`
}

type missionRequest struct {
	CFResponse string `json:"cf_response,omitempty"`
}

type claimRequest struct {
	Nonce string `json:"nonce"`
	Hash  string `json:"hash,omitempty"`
	PowID string `json:"pow_id,omitempty"`
}

func decodeResult(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	raw := bytes.TrimSpace(env.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: missing result", ErrMalformed)
	}
	return raw, nil
}

// decodeMission extracts the challenge and an optional pow_id.
func (v Variant) decodeMission(body []byte) (entity.Challenge, string, error) {
	raw, err := decodeResult(body)
	if err != nil {
		return entity.Challenge{}, "", err
	}

	switch raw[0] {
	case '{':
		var m missionResult
		if err := json.Unmarshal(raw, &m); err != nil {
			return entity.Challenge{}, "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if m.Payload == nil {
			return entity.Challenge{}, "", fmt.Errorf("%w: result has no payload", ErrMalformed)
		}
		req := m.Requirement
		if req == nil {
			req = m.Require
		}
		if req == nil {
			return entity.Challenge{}, "", fmt.Errorf("%w: result has no requirement", ErrMalformed)
		}
		return entity.Challenge{Payload: *m.Payload, Requirement: *req}, m.PowID, nil

	case '"':
		if !v.BarePayload {
			return entity.Challenge{}, "", fmt.Errorf("%w: bare payload not expected by %s", ErrMalformed, v.Name)
		}
		var payload string
		if err := json.Unmarshal(raw, &payload); err != nil {
			return entity.Challenge{}, "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return entity.Challenge{Payload: payload, Requirement: v.FixedRequirement}, "", nil

	default:
		return entity.Challenge{}, "", fmt.Errorf("%w: unexpected result %.32s", ErrMalformed, raw)
	}
}

// decodePowIDs returns the non-empty pow_id values of a result list in
// order.
func decodePowIDs(body []byte) ([]string, error) {
	raw, err := decodeResult(body)
	if err != nil {
		return nil, err
	}
	var recs []powRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		if r.PowID != "" {
			ids = append(ids, r.PowID)
		}
	}
	return ids, nil
}

func (v Variant) missionBody(cfResponse string) []byte {
	b, _ := json.Marshal(missionRequest{CFResponse: cfResponse})
	return b
}

func (v Variant) claimBody(c entity.Candidate, powID string) []byte {
	req := claimRequest{Nonce: c.Nonce}
	if v.ClaimWithHash {
		req.Hash = c.Digest
	}
	if v.ChainPowID {
		req.PowID = powID
	}
	b, _ := json.Marshal(req)
	return b
}
