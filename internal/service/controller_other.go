//go:build !windows

package service

// New returns the controller for the host platform. Only the Windows
// service control manager is supported; elsewhere every call fails with
// ErrUnsupported.
func New() Controller { return unsupported{} }

type unsupported struct{}

func (unsupported) Status(name string) (Status, error) {
	return 0, &OpError{Op: OpStatus, Service: name, Err: ErrUnsupported}
}

func (unsupported) Start(name string) error {
	return &OpError{Op: OpStart, Service: name, Err: ErrUnsupported}
}

func (unsupported) List() ([]Entry, error) {
	return nil, &OpError{Op: OpList, Err: ErrUnsupported}
}
