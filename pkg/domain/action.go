package domain

// ActionRequest asks the host to run one action of a transition.
type ActionRequest struct {
	Document string `json:"document,omitempty"`
	Action   string `json:"action"`
	Event    string `json:"event"`
	From     string `json:"from"`
	To       string `json:"to"`
}
