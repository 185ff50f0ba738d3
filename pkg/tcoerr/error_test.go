package tcoerr

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "Async",
			err:  New(AsyncRejected, "worker"),
			want: "worker: ASYNC_REJECTED",
		},
		{
			name: "NotTail",
			err: NotTail("bad", []Violation{
				{Line: 4, Message: "self-call composed with multiplication"},
			}),
			want: "bad: NOT_TAIL_RECURSIVE (1 violation(s))",
		},
		{
			name: "ArgShape",
			err:  ArgShape("f", 9, "arity mismatch: want 2, got 3"),
			want: "f: ARGUMENT_SHAPE: arity mismatch: want 2, got 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotTailPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty violation list")
		}
	}()
	NotTail("f", nil)
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("no go files")
	err := Wrap("f", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find wrapped cause")
	}
	if !strings.Contains(err.Error(), "no go files") {
		t.Errorf("Error() = %q, want to contain cause", err.Error())
	}
}
