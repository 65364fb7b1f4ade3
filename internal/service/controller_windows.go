//go:build windows

package service

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc/mgr"
)

// New returns a controller backed by the local service control manager.
func New() Controller { return scm{} }

// scm opens the manager per call with only the access rights that call
// needs, so status queries work for non-administrative accounts.
type scm struct{}

func (scm) Status(name string) (Status, error) {
	s, closeFn, err := openService(name, windows.SERVICE_QUERY_STATUS)
	if err != nil {
		return 0, &OpError{Op: OpStatus, Service: name, Err: err}
	}
	defer closeFn()
	st, err := s.Query()
	if err != nil {
		return 0, &OpError{Op: OpStatus, Service: name, Err: classify(err)}
	}
	return Status(st.State), nil
}

func (scm) Start(name string) error {
	s, closeFn, err := openService(name, windows.SERVICE_START)
	if err != nil {
		return &OpError{Op: OpStart, Service: name, Err: err}
	}
	defer closeFn()
	if err := s.Start(); err != nil {
		if errors.Is(err, windows.ERROR_SERVICE_ALREADY_RUNNING) {
			return nil
		}
		return &OpError{Op: OpStart, Service: name, Err: classify(err)}
	}
	return nil
}

func (scm) List() ([]Entry, error) {
	h, err := windows.OpenSCManager(nil, nil, windows.SC_MANAGER_ENUMERATE_SERVICE)
	if err != nil {
		return nil, &OpError{Op: OpList, Err: classify(err)}
	}
	defer func() { _ = windows.CloseServiceHandle(h) }()

	var buf []byte
	var bytesNeeded, returned uint32
	for {
		var p *byte
		if len(buf) > 0 {
			p = &buf[0]
		}
		err = windows.EnumServicesStatusEx(h, windows.SC_ENUM_PROCESS_INFO,
			windows.SERVICE_WIN32, windows.SERVICE_STATE_ALL,
			p, uint32(len(buf)), &bytesNeeded, &returned, nil, nil)
		if err == nil {
			break
		}
		if !errors.Is(err, windows.ERROR_MORE_DATA) || bytesNeeded <= uint32(len(buf)) {
			return nil, &OpError{Op: OpList, Err: classify(err)}
		}
		buf = make([]byte, bytesNeeded)
	}
	if returned == 0 {
		return nil, nil
	}

	rows := unsafe.Slice((*windows.ENUM_SERVICE_STATUS_PROCESS)(unsafe.Pointer(&buf[0])), int(returned))
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, Entry{
			Name:        windows.UTF16PtrToString(r.ServiceName),
			DisplayName: windows.UTF16PtrToString(r.DisplayName),
			Status:      Status(r.ServiceStatusProcess.CurrentState),
		})
	}
	return out, nil
}

// openService connects to the manager and opens name with access. The
// returned func closes both handles.
func openService(name string, access uint32) (*mgr.Service, func(), error) {
	h, err := windows.OpenSCManager(nil, nil, windows.SC_MANAGER_CONNECT)
	if err != nil {
		return nil, nil, classify(err)
	}
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		_ = windows.CloseServiceHandle(h)
		return nil, nil, err
	}
	sh, err := windows.OpenService(h, namePtr, access)
	if err != nil {
		_ = windows.CloseServiceHandle(h)
		return nil, nil, classify(err)
	}
	s := &mgr.Service{Name: name, Handle: sh}
	return s, func() {
		_ = s.Close()
		_ = windows.CloseServiceHandle(h)
	}, nil
}

// classify tags well-known SCM errors with the package sentinels while
// keeping the original errno in the chain.
func classify(err error) error {
	switch {
	case errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	default:
		return err
	}
}
