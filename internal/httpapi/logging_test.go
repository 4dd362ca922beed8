package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LevelOff,
		"off":   LevelOff,
		"error": LevelError,
		"info":  LevelInfo,
		"debug": LevelDebug,
		"bogus": LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestLogLevelPrecedence(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/infer?log=debug", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r, LevelOff); got != LevelDebug {
		t.Errorf("query param should win, got %v", got)
	}

	r2 := httptest.NewRequest(http.MethodGet, "/infer", nil)
	r2.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r2, LevelOff); got != LevelError {
		t.Errorf("header should win over default, got %v", got)
	}

	r3 := httptest.NewRequest(http.MethodGet, "/infer", nil)
	if got := requestLogLevel(r3, LevelInfo); got != LevelInfo {
		t.Errorf("default should apply, got %v", got)
	}
}
