package model

import "strconv"

// CallerInfo identifies who is asking. It is built from trusted transport
// data, never from the request body.
type CallerInfo struct {
	UserID          *int64
	Username        string
	IsAuthenticated bool
	IP              string
}

// DisplayName is the name embedded in prompts.
func (c CallerInfo) DisplayName() string {
	if c.IsAuthenticated && c.Username != "" {
		return c.Username
	}
	return "Гость"
}

// String is used in usage logs.
func (c CallerInfo) String() string {
	if c.IsAuthenticated && c.UserID != nil {
		return c.Username + "#" + strconv.FormatInt(*c.UserID, 10)
	}
	return "anonymous"
}

// AssistantRequest is one inbound call with typed optional fields.
type AssistantRequest struct {
	RawText        string
	ExplicitIntent string
	StepNumber     *int
	CurrentText    string
	Tags           []string
	PostID         *int64
	UserIDTarget   *int64
	Caller         CallerInfo
}

// AssistantResponse is the success envelope.
type AssistantResponse struct {
	Text      string `json:"response"`
	Timestamp string `json:"timestamp"`
}
