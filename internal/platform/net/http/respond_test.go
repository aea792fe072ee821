package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "editledger/internal/platform/errors"
	elnet "editledger/internal/platform/net"
	phttp "editledger/internal/platform/net/http"
)

func reqWithID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(elnet.WithRequest(req.Context(), rid))
}

func TestJSONAndStatusHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("JSON status: expected 418, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content-type set")
	}

	rec2 := httptest.NewRecorder()
	phttp.JSONStatus(rec2, http.StatusAccepted)
	if rec2.Code != http.StatusAccepted {
		t.Fatalf("JSONStatus: expected 202, got %d", rec2.Code)
	}
}

func TestHandle_EnvelopeStatuses(t *testing.T) {
	req := reqWithID("GET", "/x", "rid-1")

	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.OK(map[string]string{"a": "b"})
	})(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("OK code: %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("bad envelope: %+v", env)
	}

	recC := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Created(map[string]int{"id": 7})
	})(recC, req)
	if recC.Code != http.StatusCreated {
		t.Fatalf("Created code: %d", recC.Code)
	}

	recA := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Accepted(nil)
	})(recA, req)
	if recA.Code != http.StatusAccepted {
		t.Fatalf("Accepted code: %d", recA.Code)
	}

	recN := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.NoContent()
	})(recN, req)
	if recN.Code != http.StatusNoContent {
		t.Fatalf("NoContent code: %d", recN.Code)
	}
	if recN.Body.Len() != 0 {
		t.Fatalf("NoContent should write no body, got %q", recN.Body.String())
	}
}

func TestHandle_ErrorEnvelope(t *testing.T) {
	req := reqWithID("GET", "/x", "rid-2")
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Error(perr.NotFoundf("event 9 not found"))
	})(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("error code: %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Code != perr.ErrorCodeNotFound || env.Error == "" || env.RequestID != "rid-2" {
		t.Fatalf("bad error envelope: %+v", env)
	}
}

func TestList_PageBlock(t *testing.T) {
	req := reqWithID("GET", "/x", "rid-3")
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.List([]int{1, 2, 3}, 3, "next-cursor")
	})(rec, req)

	var env struct {
		Data struct {
			Items []int      `json:"items"`
			Page  phttp.Page `json:"page"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal list body: %v", err)
	}
	if len(env.Data.Items) != 3 || env.Data.Page.Limit != 3 || env.Data.Page.Cursor != "next-cursor" {
		t.Fatalf("bad list envelope: %+v", env.Data)
	}
}
