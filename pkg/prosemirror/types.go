package prosemirror

// Doc represents the top-level structure of a ProseMirror document
type Doc struct {
	Type    string `json:"type"`
	Content []Node `json:"content,omitempty"`
}

// Node represents any node in the ProseMirror tree
type Node struct {
	Type    string                 `json:"type"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []Node                 `json:"content,omitempty"`

	// Text specific
	Text  string `json:"text,omitempty"`
	Marks []Mark `json:"marks,omitempty"`
}

// Mark represents inline formatting applied to a text node
type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// IntAttr reads an integer attribute, tolerating the float64 produced
// by encoding/json for untyped numbers.
func (n Node) IntAttr(key string, fallback int) int {
	if n.Attrs == nil {
		return fallback
	}
	switch v := n.Attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

// StringAttr reads a string attribute.
func (n Node) StringAttr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	if s, ok := n.Attrs[key].(string); ok {
		return s
	}
	return ""
}

// BoolAttr reads a boolean attribute.
func (n Node) BoolAttr(key string) bool {
	if n.Attrs == nil {
		return false
	}
	if b, ok := n.Attrs[key].(bool); ok {
		return b
	}
	return false
}

// HasMark reports whether a text node carries the given mark type.
func (n Node) HasMark(markType string) bool {
	for _, m := range n.Marks {
		if m.Type == markType {
			return true
		}
	}
	return false
}

// MarkAttr returns the named attribute of the first mark of the given type.
func (n Node) MarkAttr(markType, key string) string {
	for _, m := range n.Marks {
		if m.Type != markType || m.Attrs == nil {
			continue
		}
		if s, ok := m.Attrs[key].(string); ok {
			return s
		}
	}
	return ""
}
