package osc

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Method is an interface for OSC Methods.
type Method interface {
	HandleMessage(msg *Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC
// Method function.
type MethodFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message. Implements the
// Method interface.
func (f MethodFunc) HandleMessage(msg *Message) {
	f(msg)
}

// Dispatcher routes received OSC Messages to Methods registered for their
// address. It plugs into a Server via (*Server).UseDispatcher.
type Dispatcher struct {
	methods map[string]Method
}

// AddMethod adds a new OSC Method for the given OSC address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if d.methods == nil {
		d.methods = make(map[string]Method)
	}

	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return fmt.Errorf("AddMethod: OSC method may not contain any characters in \"*?,[]{}# \"")
	}

	if _, ok := d.methods[addr]; ok {
		return fmt.Errorf("AddMethod: OSC method exists already")
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// DispatchMessage invokes every method whose address the message's address
// pattern matches.
func (d *Dispatcher) DispatchMessage(msg *Message) {
	r, err := getRegEx(msg.Address)
	if err != nil {
		return
	}

	// The OSC spec divides addresses into parts; matching is per-part, so a
	// pattern only matches methods with the same number of parts.
	r.Longest()
	aParts := len(strings.Split(msg.Address, "/"))
	for addr, method := range d.methods {
		if aParts == len(strings.Split(addr, "/")) && r.FindString(addr) == addr {
			method.HandleMessage(msg)
		}
	}
}

// DispatchBundle dispatches the bundle's elements once its time tag expires.
// Elements of a bundle with an immediate time tag are dispatched
// synchronously.
func (d *Dispatcher) DispatchBundle(b *Bundle) {
	if delay := b.Timetag.ExpiresIn(); delay > 0 {
		time.AfterFunc(delay, func() { d.dispatchElements(b) })
		return
	}
	d.dispatchElements(b)
}

func (d *Dispatcher) dispatchElements(b *Bundle) {
	for _, m := range b.Messages {
		d.DispatchMessage(m)
	}
	for _, nb := range b.Bundles {
		d.DispatchBundle(nb)
	}
}

// getRegEx returns a regexp.Regexp for the given OSC address pattern.
func getRegEx(pattern string) (*regexp.Regexp, error) {
	r := strings.NewReplacer(
		".", `\.`,
		"(", `\(`,
		")", `\)`,
		"*", "[^/]*",
		"{", "(",
		",", "|",
		"}", ")",
		"?", "[^/]",
		"!", "^",
	)
	pattern = r.Replace(pattern)

	return regexp.Compile(pattern)
}
