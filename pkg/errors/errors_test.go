package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(ErrCodeInvalidPackage, "invalid package name %q", "../x")

	if err.Code != ErrCodeInvalidPackage || err.Message != `invalid package name "../x"` {
		t.Errorf("New() = %+v", err)
	}
	if want := `INVALID_PACKAGE: invalid package name "../x"`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := Wrap(ErrCodeProvision, cause, "npm install left-pad@1.3.0")

	if errors.Unwrap(err) != cause || !errors.Is(err, cause) {
		t.Error("Wrap() should expose its cause to errors.Unwrap and errors.Is")
	}
	if want := "PROVISION_FAILED: npm install left-pad@1.3.0: exit status 1"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	registry := New(ErrCodePackageNotFound, "npm package nope")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct", registry, ErrCodePackageNotFound, true},
		{"other code", registry, ErrCodeNetwork, false},
		{"wrapped by fmt", fmt.Errorf("resolve: %w", registry), ErrCodePackageNotFound, true},
		{"outer code", Wrap(ErrCodeInternal, registry, "package query"), ErrCodeInternal, true},
		{"plain error", errors.New("plain"), ErrCodePackageNotFound, false},
		{"nil", nil, ErrCodePackageNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeInvalidPath, "relative"), ErrCodeInvalidPath},
		{"behind fmt wrap", fmt.Errorf("query: %w", New(ErrCodeTimeout, "install")), ErrCodeTimeout},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidConfig, "unknown store scheme")); got != "unknown store scheme" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestUserMessageChain(t *testing.T) {
	inner := New(ErrCodeInvalidManifest, "package.json is missing a version")
	err := Wrap(ErrCodeInternal, inner, "read primary package")

	want := "read primary package: package.json is missing a version"
	if got := UserMessage(err); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}

func TestIsInnerCode(t *testing.T) {
	inner := New(ErrCodeInvalidManifest, "bad manifest")
	err := Wrap(ErrCodeProvision, inner, "provision left-pad")

	if !Is(err, ErrCodeInvalidManifest) {
		t.Error("Is() should find a code deeper in the chain")
	}
	if GetCode(err) != ErrCodeProvision {
		t.Errorf("GetCode() = %v, want outermost %v", GetCode(err), ErrCodeProvision)
	}
}
