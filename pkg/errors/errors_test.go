package errors

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"
)

func TestErrorString(t *testing.T) {
	err := &Error{
		Op:   "schedule.Tick",
		Kind: KindTask,
		Err:  stderrors.New("boom"),
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
	if !strings.Contains(got, "schedule.Tick") || !strings.Contains(got, "task") {
		t.Errorf("error string %q should contain op and kind", got)
	}
}

func TestErrorStringWithTaskID(t *testing.T) {
	err := &Error{
		Op:     "schedule.Tick",
		Kind:   KindDelay,
		TaskID: "spinner",
		Err:    stderrors.New("negative delay"),
	}
	got := err.Error()
	want := "task=spinner"
	if !strings.Contains(got, want) {
		t.Errorf("error string %q should contain %q", got, want)
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := stderrors.New("inner")
	err := &Error{Op: "frames.Next", Kind: KindDecode, Err: inner}
	if !stderrors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindTask, "task"},
		{KindDelay, "delay"},
		{KindDecode, "decode"},
		{KindRender, "render"},
		{KindConfig, "config"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestPanicErrorStringWithOpAndTask(t *testing.T) {
	err := &PanicError{
		Op:     "schedule.advance",
		TaskID: "gif",
		Value:  "test panic",
	}
	got := err.Error()
	want := "panic in schedule.advance task=gif: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

// captureHandler records reported errors for assertions.
type captureHandler struct {
	errs   []*Error
	panics []*PanicError
}

func (h *captureHandler) HandleError(err *Error)      { h.errs = append(h.errs, err) }
func (h *captureHandler) HandlePanic(err *PanicError) { h.panics = append(h.panics, err) }

func TestReportSetsTimestamp(t *testing.T) {
	h := &captureHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	Report(&Error{Op: "test", Kind: KindConfig, Err: stderrors.New("bad")})
	if len(h.errs) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(h.errs))
	}
	if h.errs[0].Timestamp.IsZero() {
		t.Error("Report should stamp a zero Timestamp")
	}
}

func TestReportNilIsNoOp(t *testing.T) {
	h := &captureHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	Report(nil)
	ReportPanic(nil)
	if len(h.errs) != 0 || len(h.panics) != 0 {
		t.Error("nil reports should be dropped")
	}
}

func TestRecoverReportsPanic(t *testing.T) {
	h := &captureHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	func() {
		defer Recover("test.op")
		panic("kaboom")
	}()

	if len(h.panics) != 1 {
		t.Fatalf("expected 1 reported panic, got %d", len(h.panics))
	}
	p := h.panics[0]
	if p.Op != "test.op" {
		t.Errorf("Op = %q, want %q", p.Op, "test.op")
	}
	if p.Value != "kaboom" {
		t.Errorf("Value = %v, want kaboom", p.Value)
	}
	if p.StackTrace == "" {
		t.Error("expected captured stack trace")
	}
}

func TestSetHandlerNilRestoresDefault(t *testing.T) {
	SetHandler(&captureHandler{})
	SetHandler(nil)
	if _, ok := getHandler().(*LogHandler); !ok {
		t.Errorf("expected default LogHandler, got %T", getHandler())
	}
}
