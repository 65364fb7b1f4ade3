// Package servicetest provides an in-memory service.Controller for tests.
package servicetest

import (
	"fmt"
	"strings"

	"github.com/loykin/svcwatch/internal/service"
)

// Controller is a deterministic service registry. Services are listed in
// the order they were added. It is not safe for concurrent use.
type Controller struct {
	order     []string
	services  map[string]*entry
	StartErr  map[string]error
	StatusErr map[string]error
	ListErr   error
	Calls     []string
}

type entry struct {
	display string
	status  service.Status
}

// New returns an empty registry.
func New() *Controller {
	return &Controller{
		services:  make(map[string]*entry),
		StartErr:  make(map[string]error),
		StatusErr: make(map[string]error),
	}
}

// Add registers name with the given state. Re-adding updates the state.
func (c *Controller) Add(name string, st service.Status) *Controller {
	return c.AddDisplay(name, name, st)
}

// AddDisplay registers name with a display name and state.
func (c *Controller) AddDisplay(name, display string, st service.Status) *Controller {
	if e, ok := c.services[name]; ok {
		e.display = display
		e.status = st
		return c
	}
	c.order = append(c.order, name)
	c.services[name] = &entry{display: display, status: st}
	return c
}

func (c *Controller) Status(name string) (service.Status, error) {
	c.Calls = append(c.Calls, "status:"+name)
	if err := c.StatusErr[name]; err != nil {
		return 0, &service.OpError{Op: service.OpStatus, Service: name, Err: err}
	}
	e, ok := c.services[name]
	if !ok {
		return 0, &service.OpError{Op: service.OpStatus, Service: name, Err: service.ErrNotFound}
	}
	return e.status, nil
}

func (c *Controller) Start(name string) error {
	c.Calls = append(c.Calls, "start:"+name)
	if err := c.StartErr[name]; err != nil {
		return &service.OpError{Op: service.OpStart, Service: name, Err: err}
	}
	e, ok := c.services[name]
	if !ok {
		return &service.OpError{Op: service.OpStart, Service: name, Err: service.ErrNotFound}
	}
	if e.status != service.Stopped {
		return &service.OpError{Op: service.OpStart, Service: name, Err: fmt.Errorf("cannot start from %s", e.status)}
	}
	e.status = service.Running
	return nil
}

func (c *Controller) List() ([]service.Entry, error) {
	c.Calls = append(c.Calls, "list")
	if c.ListErr != nil {
		return nil, &service.OpError{Op: service.OpList, Err: c.ListErr}
	}
	out := make([]service.Entry, 0, len(c.order))
	for _, n := range c.order {
		e := c.services[n]
		out = append(out, service.Entry{Name: n, DisplayName: e.display, Status: e.status})
	}
	return out, nil
}

// Starts returns the names passed to Start, in call order.
func (c *Controller) Starts() []string {
	var out []string
	for _, call := range c.Calls {
		if name, ok := strings.CutPrefix(call, "start:"); ok {
			out = append(out, name)
		}
	}
	return out
}
