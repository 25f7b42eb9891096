package ws

import "encoding/json"

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// AuthMsg is sent by the client with a Neon Auth JWT to attribute results to an account.
type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// SetNameMsg is sent by the client to declare a display name.
type SetNameMsg struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// FlipCardMsg is sent when the player clicks a face-down card.
type FlipCardMsg struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// CueEndedMsg is sent once per card when its mismatch animation ends.
type CueEndedMsg struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// --- Server-to-Client messages ---

// ErrorMsg is sent when a client action is invalid.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// IdentityMsg confirms the name (and account, if authenticated) results are recorded under.
type IdentityMsg struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Authenticated bool   `json:"authenticated"`
}
