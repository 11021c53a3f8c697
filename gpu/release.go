package gpu

type Releaser interface {
	Release()
}

// ReleaseGuard releases its delegate at most once. Useful to release a
// render pass on every error path while still allowing the explicit release
// a command encoder requires before Finish.
type ReleaseGuard struct {
	delegate Releaser
}

func NewReleaseGuard(delegate Releaser) ReleaseGuard {
	return ReleaseGuard{delegate: delegate}
}

func (r *ReleaseGuard) Release() {
	if r.delegate != nil {
		r.delegate.Release()
		r.delegate = nil
	}
}
