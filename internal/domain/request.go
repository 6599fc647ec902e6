package domain

// ChatRequest is the external chat request contract (spec.md §6).
type ChatRequest struct {
	Message    string  `json:"message"`
	SessionID  *string `json:"session_id,omitempty"`
	ContractID *string `json:"contract_id,omitempty"`
}

// ChatResponse is the external chat response contract. The user-facing
// text field is named Message, not Response — this is a fixed, required
// contract (spec.md §6, §9 Open Questions).
type ChatResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Agent     AgentName  `json:"agent"`
	AgentID   string     `json:"agent_id"`
	Citations []Citation `json:"citations"`
	ToolsUsed []string   `json:"tools_used"`
	SessionID string     `json:"session_id"`
	Error     string     `json:"error,omitempty"`
}

// ErrorResponse is the external error contract.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ContractUploadRequest is the parsed multipart contract upload request.
type ContractUploadRequest struct {
	Title        string
	ContractType string
	Parties      []Party
	Notes        string
	Filename     string
	FileBytes    []byte
}

// ContractUploadResponse is the response to a successful upload.
type ContractUploadResponse struct {
	ContractID string         `json:"contract_id"`
	Status     ContractStatus `json:"status"`
}

// CoreError is a structured error carrying one of the fixed ErrorKinds.
// The orchestrator never lets a CoreError escape as a panic; every
// boundary converts it into a ChatResponse or ErrorResponse (spec.md §7).
type CoreError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *CoreError) Error() string {
	if e.Cause != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *CoreError) Unwrap() error { return e.Cause }

// NewCoreError builds a CoreError of the given kind.
func NewCoreError(kind ErrorKind, message string, cause error) *CoreError {
	return &CoreError{Kind: kind, Message: message, Cause: cause}
}

// UserMessage returns the small, fixed, user-visible message for an error
// kind. Technical detail (Message/Cause) is logged server-side only,
// never surfaced to the user (spec.md §7).
func (e *CoreError) UserMessage() string {
	switch e.Kind {
	case ErrInvalidRequest:
		return "That request isn't quite right — please check your message and try again."
	case ErrConfiguration:
		return "This assistant isn't configured correctly right now. Please try again later."
	case ErrToolLoopExceeded:
		return "I wasn't able to fully finish this task, but here's what I found so far."
	case ErrAgentTimeout:
		return "This is taking longer than expected — please try again in a moment."
	case ErrPipelineAborted:
		return e.Message
	default:
		return "Something went wrong on our end. Please try again."
	}
}
