package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessageIncludesOpKindAndCause(t *testing.T) {
	e := New(BadInput, "jpegcodec.Decode", errors.New("short header"))
	got := e.Error()
	want := "jpegcodec.Decode: bad input: short header"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorMessageWithNilCause(t *testing.T) {
	e := New(InvalidState, "Bitmap.Resize", nil)
	if got, want := e.Error(), "Bitmap.Resize: invalid state"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("boom")
	e := New(IoError, "Reader.Read", cause)
	if !errors.Is(e, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIsMatchesOnKindNotCause(t *testing.T) {
	a := New(Aborted, "callback", errors.New("one"))
	b := New(Aborted, "other op", errors.New("two"))
	if !errors.Is(a, b) {
		t.Error("two *Error values with the same Kind should match via errors.Is")
	}
	c := New(BadInput, "callback", nil)
	if errors.Is(a, c) {
		t.Error("*Error values with different Kinds should not match")
	}
}

func TestOfExtractsKindThroughWrapping(t *testing.T) {
	e := New(ResourceExhausted, "bufPool.Get", nil)
	wrapped := fmt.Errorf("allocating tile: %w", e)
	kind, ok := Of(wrapped)
	if !ok || kind != ResourceExhausted {
		t.Errorf("Of(wrapped) = (%v,%v), want (ResourceExhausted,true)", kind, ok)
	}
	if _, ok := Of(errors.New("plain")); ok {
		t.Error("Of on a plain error should report ok=false")
	}
}

func TestKindStringNames(t *testing.T) {
	cases := map[Kind]string{
		BadInput:         "bad input",
		InvalidArgument:  "invalid argument",
		ResourceExhausted: "resource exhausted",
		IoError:          "io error",
		Aborted:          "aborted",
		InvalidState:     "invalid state",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
