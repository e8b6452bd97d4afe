package osc

import (
	"testing"
	"time"
)

func TestDispatcher_AddMethodFunc(t *testing.T) {
	type args struct {
		addr   string
		method MethodFunc
	}
	tests := []struct {
		name    string
		methods map[string]Method
		args    args
		wantErr bool
	}{
		{"valid", nil, args{"/address/test", func(_ *Message) {}}, false},
		{"invalid", nil, args{"/address*/test", func(_ *Message) {}}, true},
		{"already_exists", map[string]Method{"/address/test": MethodFunc(func(_ *Message) {})}, args{"/address/test", func(_ *Message) {}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Dispatcher{
				methods: tt.methods,
			}
			if err := d.AddMethodFunc(tt.args.addr, tt.args.method); (err != nil) != tt.wantErr {
				t.Errorf("AddMethodFunc() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func counter(add int) MethodFunc {
	return func(msg *Message) {
		msg.Arguments[0] = msg.Arguments[0].(int) + add
	}
}

var testDispatcher = &Dispatcher{
	methods: map[string]Method{
		"/osc":     counter(1),
		"/os":      counter(2),
		"/osv":     counter(4),
		"/osabc":   counter(8),
		"/osc123":  counter(16),
		"/osc1b3":  counter(32),
		"/oscz":    counter(64),
		"/osc/z":   counter(128),
		"/osc/23f": counter(256),
	},
}

func TestDispatcher_DispatchMessage(t *testing.T) {
	tests := []struct {
		name   string
		addr   string
		expect int
	}{
		{"single", "/osc", 1},
		{"c_or_not", "/os{c,}", 3},
		{"single_any", "/os{?,}", 7},
		{"single_must", "/os{c,v}", 5},
		{"match_in_part", "/osc{?,}z", 64},
		{"match_multiple_parts", "/osc/?", 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{Address: tt.addr, Arguments: []interface{}{0}}
			testDispatcher.DispatchMessage(msg)
			if got := msg.Arguments[0].(int); got != tt.expect {
				t.Errorf("DispatchMessage() got = %v, expect %v", got, tt.expect)
			}
		})
	}
}

func TestDispatcher_DispatchBundleImmediate(t *testing.T) {
	d := &Dispatcher{}
	got := 0
	if err := d.AddMethodFunc("/test", func(*Message) { got++ }); err != nil {
		t.Fatal(err)
	}

	b := NewBundle()
	b.Append(testMessage())
	nested := NewBundle()
	nested.Append(testMessage())
	b.Append(nested)

	// Immediate time tags dispatch synchronously, nested bundles included.
	d.DispatchBundle(b)
	if got != 2 {
		t.Errorf("DispatchBundle() dispatched %d messages, want 2", got)
	}
}

func TestDispatcher_DispatchBundleDelayed(t *testing.T) {
	d := &Dispatcher{}
	done := make(chan struct{})
	if err := d.AddMethodFunc("/test", func(*Message) { close(done) }); err != nil {
		t.Fatal(err)
	}

	b := NewBundleWithTime(time.Now().Add(50 * time.Millisecond))
	b.Append(testMessage())

	start := time.Now()
	d.DispatchBundle(b)

	select {
	case <-done:
		if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
			t.Errorf("bundle dispatched after %v, want the time tag honored", elapsed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("bundle was never dispatched")
	}
}
