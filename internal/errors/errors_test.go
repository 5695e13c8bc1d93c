package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	e := New("LD101")
	if e.Code != "LD101" {
		t.Errorf("code: got %q", e.Code)
	}
	if e.Category != CategoryConfig {
		t.Errorf("category: got %q", e.Category)
	}
	if e.Message == "" || e.Detail == "" || e.Suggestion == "" {
		t.Error("template fields not populated")
	}
	if !strings.Contains(e.Error(), "LD101") {
		t.Errorf("Error(): got %q", e.Error())
	}
}

func TestNewUnknownCode(t *testing.T) {
	e := New("LD999")
	if e.Code != "LD999" || e.Message != "Unknown error" {
		t.Errorf("unknown code: got %+v", e)
	}
}

func TestNewf(t *testing.T) {
	e := Newf(CategoryCLI, "bad flag %q", "--frob")
	if e.Code != "" {
		t.Errorf("Newf should not set a code, got %q", e.Code)
	}
	if e.Error() != `bad flag "--frob"` {
		t.Errorf("Error(): got %q", e.Error())
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	e := New("LD303").Wrap(cause)

	if !stderrors.Is(e, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var le *Error
	if !stderrors.As(e, &le) {
		t.Error("errors.As should find *Error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "LD301") != nil {
		t.Error("FromError(nil) should return nil")
	}

	original := New("LD201")
	if got := FromError(original, "LD301"); got != original {
		t.Error("FromError should pass through an existing *Error")
	}

	wrapped := FromError(stderrors.New("boom"), "LD302")
	if wrapped.Code != "LD302" || wrapped.Wrapped == nil {
		t.Errorf("FromError: got %+v", wrapped)
	}
}

func TestRegisterNoOverwrite(t *testing.T) {
	if Register("LD101", ErrorTemplate{Message: "clobbered"}) {
		t.Error("Register should refuse to overwrite a registered code")
	}
	if ok := Register("LD901", ErrorTemplate{Category: CategoryRuntime, Message: "custom"}); !ok {
		t.Error("Register should accept a new code")
	}
	if tpl, ok := Lookup("LD901"); !ok || tpl.Message != "custom" {
		t.Errorf("Lookup after Register: got %+v, %v", tpl, ok)
	}
}

func TestFormatPlain(t *testing.T) {
	DisableColors()
	defer EnableColors()

	e := New("LD105").Wrap(stderrors.New("dial tcp: refused"))
	out := e.Format()

	for _, want := range []string{"LD105", "Redis address required", "hint:", "caused by: dial tcp: refused", "docs:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format contains ANSI codes with colors disabled")
	}
}
