package tools

import (
	pkgerrors "github.com/CWeait/nemlig-mcp/pkg/errors"
)

// Result is the serialized outcome of a tool call. Every call produces
// either {"success": true, ...model fields} or {"success": false, "error":
// "..."}. Callers never see a bare error or a third shape.
type Result map[string]any

func success(fields map[string]any) Result {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["success"] = true
	return fields
}

func failure(err error) Result {
	msg := "internal error"
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		msg = typed.Message()
	} else if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Result{
		"success": false,
		"error":   msg,
	}
}
