package provisioning

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Checker is implemented by phases that can detect that the host already
// matches the desired state. A satisfied phase is skipped.
type Checker interface {
	Satisfied(ctx *Context) (bool, error)
}
