package llm

// Schema types, in the lower-case JSON Schema spelling.
const (
	TypeArray   = "array"
	TypeObject  = "object"
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Schema is the provider-neutral subset of JSON Schema that both the OpenAI
// structured-output API and the Gemini response schema understand.
type Schema struct {
	Type       string
	Properties map[string]*Schema
	Items      *Schema
	Enum       []string
	Required   []string
}

// JSON renders the schema as a JSON Schema document. Objects are closed
// (additionalProperties: false), which strict structured output requires.
func (s *Schema) JSON() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": s.Type}
	if len(s.Enum) > 0 {
		out["enum"] = append([]string{}, s.Enum...)
	}
	if s.Items != nil {
		out["items"] = s.Items.JSON()
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSON()
		}
		out["properties"] = props
		out["additionalProperties"] = false
		if len(s.Required) > 0 {
			out["required"] = append([]string{}, s.Required...)
		}
	}
	return out
}
