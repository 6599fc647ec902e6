package domain

// FieldType is the small set of JSON types a tool parameter may declare.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldObject  FieldType = "object"
	FieldArray   FieldType = "array"
)

// FieldSchema describes one parameter of a tool's ParameterSchema.
type FieldSchema struct {
	Type        FieldType `json:"type"`
	Description string    `json:"description,omitempty"`
	Required    bool       `json:"required,omitempty"`
}

// ParameterSchema is a JSON-schema-like description of a tool's arguments,
// field name to FieldSchema.
type ParameterSchema map[string]FieldSchema

// ToolDeclaration is what is passed verbatim to ModelClient as the tool
// menu for a given agent (spec.md §4.1).
type ToolDeclaration struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ParameterSchema ParameterSchema `json:"parameter_schema"`
}

// ToolFailureKind is the fixed taxonomy of ToolRegistry.Dispatch failures.
type ToolFailureKind string

const (
	ToolFailureUnknown           ToolFailureKind = "unknown_tool"
	ToolFailureBadArguments      ToolFailureKind = "bad_arguments"
	ToolFailureHandlerError      ToolFailureKind = "handler_error"
	ToolFailureHandlerTimeout    ToolFailureKind = "handler_timeout"
	ToolFailureUpstreamUnavail   ToolFailureKind = "upstream_unavailable"
	ToolFailureBlocked           ToolFailureKind = "blocked"
)

// ToolOutcome is the result of ToolRegistry.Dispatch: either a JSON-
// serializable value, or a typed failure that the orchestrator never
// raises on — it is fed back to the LLM as a tool-result payload.
type ToolOutcome struct {
	OK      bool
	Value   interface{}
	Kind    ToolFailureKind
	Message string
	Fields  map[string]string // field-level errors for bad_arguments
}

// ErrorPayload returns the {"error": "...", "kind": "..."} shape fed back
// to the LLM on failure.
func (o ToolOutcome) ErrorPayload() map[string]interface{} {
	payload := map[string]interface{}{
		"error": o.Message,
		"kind":  string(o.Kind),
	}
	if len(o.Fields) > 0 {
		payload["fields"] = o.Fields
	}
	return payload
}

// ToolRequest is one function call the LLM asked the orchestrator to make.
type ToolRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments []byte `json:"arguments"`
}

// ToolResultEntry pairs a ToolRequest with its dispatched outcome, in the
// shape ModelClient.ContinueWithToolResults expects.
type ToolResultEntry struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Result  interface{} `json:"result,omitempty"`
	IsError bool        `json:"is_error,omitempty"`
}
