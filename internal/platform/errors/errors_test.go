package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestHTTPStatusCode_Mapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusBadRequest},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCode(999), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%d) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWrap_PreservesCauseAndCode(t *testing.T) {
	cause := stderrs.New("boom")
	err := Wrap(cause, ErrorCodeDB, "query failed")

	if !stderrs.Is(err, cause) {
		t.Fatalf("wrapped error should match cause via errors.Is")
	}
	if CodeOf(err) != ErrorCodeDB {
		t.Fatalf("CodeOf = %d, want ErrorCodeDB", CodeOf(err))
	}
	if Root(err) != cause {
		t.Fatalf("Root should return the deepest cause")
	}
}

func TestCodeOf_ForeignError(t *testing.T) {
	if CodeOf(stderrs.New("plain")) != ErrorCodeUnknown {
		t.Fatalf("foreign errors should map to Unknown")
	}
}

func TestWireFrom(t *testing.T) {
	w := WireFrom(NotFoundf("revision %d not found", 7))
	if w.Code != ErrorCodeNotFound {
		t.Fatalf("wire code = %d, want NotFound", w.Code)
	}
	if w.Message != "revision 7 not found" {
		t.Fatalf("wire message = %q", w.Message)
	}

	if z := WireFrom(nil); z != (Wire{}) {
		t.Fatalf("WireFrom(nil) should be zero Wire")
	}
}

func TestWithField_CopyOnWrite(t *testing.T) {
	orig := InvalidArgf("bad input")
	withField := WithField(orig, "wiki")

	oe, _ := As(orig)
	fe, _ := As(withField)
	if oe.Field() != "" {
		t.Fatalf("original mutated")
	}
	if fe.Field() != "wiki" {
		t.Fatalf("field not attached, got %q", fe.Field())
	}
}

func TestIsCode(t *testing.T) {
	err := Forbiddenf("no")
	if !IsCode(err, ErrorCodeForbidden) {
		t.Fatalf("IsCode should match Forbidden")
	}
	if IsCode(err, ErrorCodeNotFound) {
		t.Fatalf("IsCode should not match NotFound")
	}
}
