package model

// CheckoutOutcome is the result of one checkout run.
type CheckoutOutcome struct {
	Status             OutcomeStatus `json:"status"`
	Branch             string        `json:"branch,omitempty"`
	RepositoryIdentity string        `json:"repository"`
	Path               string        `json:"path,omitempty"`
	FilePath           string        `json:"filepath,omitempty"`
	ErrorMessage       string        `json:"error,omitempty"`
}

// Succeeded reports whether the run ended without a checkout failure.
func (o CheckoutOutcome) Succeeded() bool {
	return o.Status == OutcomeSuccess
}
