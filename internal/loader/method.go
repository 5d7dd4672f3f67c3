package loader

import (
	"fmt"
	"strings"
)

// Method enumerates the SDK's public API. The set is closed: dispatch is a
// total switch over these values.
type Method int

const (
	MethodInit Method = iota + 1
	MethodAddBreadcrumb
	MethodCaptureMessage
	MethodCaptureException
	MethodCaptureEvent
	MethodConfigureScope
	MethodWithScope
	MethodShowReportDialog
)

var methodNames = map[Method]string{
	MethodInit:             "init",
	MethodAddBreadcrumb:    "addBreadcrumb",
	MethodCaptureMessage:   "captureMessage",
	MethodCaptureException: "captureException",
	MethodCaptureEvent:     "captureEvent",
	MethodConfigureScope:   "configureScope",
	MethodWithScope:        "withScope",
	MethodShowReportDialog: "showReportDialog",
}

// Methods returns every API method in declaration order.
func Methods() []Method {
	return []Method{
		MethodInit,
		MethodAddBreadcrumb,
		MethodCaptureMessage,
		MethodCaptureException,
		MethodCaptureEvent,
		MethodConfigureScope,
		MethodWithScope,
		MethodShowReportDialog,
	}
}

// String returns the method's API name.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod resolves an API name.
func ParseMethod(name string) (Method, error) {
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown SDK method %q", name)
}

// Triggers reports whether a call to m injects the bundle in lazy mode:
// any capture* method, and showReportDialog.
func (m Method) Triggers() bool {
	name := m.String()
	return strings.Contains(name, "capture") || name == "showReportDialog"
}
