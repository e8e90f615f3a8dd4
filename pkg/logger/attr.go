package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// BusinessID records the business identifier under the key "business_id".
// If id is nil, it returns an empty Attr.
func BusinessID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("business_id", id)
}

// PlanID records the plan identifier under the key "plan_id".
// If id is nil, it returns an empty Attr.
func PlanID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("plan_id", id)
}

// InvoiceID records the invoice identifier under the key "invoice_id".
// If id is nil, it returns an empty Attr.
func InvoiceID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("invoice_id", id)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
