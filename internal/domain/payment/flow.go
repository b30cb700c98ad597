package payment

// Flow is the type-level tag of an operation. Markers carry no data; an
// adapter supports a flow by implementing the integration for its marker.
// The set is closed: only this package can declare flows.
type Flow interface {
	Name() string
	flow()
}

type (
	Authorize       struct{}
	Capture         struct{}
	PSync           struct{}
	Void            struct{}
	Execute         struct{}
	RSync           struct{}
	PreAuthenticate struct{}
	Authenticate    struct{}
)

func (Authorize) Name() string       { return "authorize" }
func (Capture) Name() string         { return "capture" }
func (PSync) Name() string           { return "psync" }
func (Void) Name() string            { return "void" }
func (Execute) Name() string         { return "refund_execute" }
func (RSync) Name() string           { return "refund_sync" }
func (PreAuthenticate) Name() string { return "pre_authenticate" }
func (Authenticate) Name() string    { return "authenticate" }

func (Authorize) flow()       {}
func (Capture) flow()         {}
func (PSync) flow()           {}
func (Void) flow()            {}
func (Execute) flow()         {}
func (RSync) flow()           {}
func (PreAuthenticate) flow() {}
func (Authenticate) flow()    {}

// FlowName returns the name of F without needing a value.
func FlowName[F Flow]() string {
	var f F
	return f.Name()
}
