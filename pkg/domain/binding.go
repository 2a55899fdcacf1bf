package domain

// Node identifies an element of the host design document.
type Node struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
	Type string `json:"type" mapstructure:"type"`
}

// Property is a node attribute a binding can drive.
type Property string

// PropertyVisibility toggles whether the node is shown.
const PropertyVisibility Property = "visibility"

// Binding ties a property to a boolean expression evaluated against the current state.
type Binding struct {
	Property   Property `json:"property"`
	Expression string   `json:"expression"`
}

// NodeBinding is one entry of the binding list.
type NodeBinding struct {
	Node     Node      `json:"node"`
	Bindings []Binding `json:"bindings"`
}

// Binding returns the binding for property, if any.
func (nb NodeBinding) Binding(property Property) (Binding, bool) {
	for _, b := range nb.Bindings {
		if b.Property == property {
			return b, true
		}
	}
	return Binding{}, false
}
