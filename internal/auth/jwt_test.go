package auth

import (
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	token, err := Issue("sid-42", "studentportal", "test-key", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	sid, err := Parse(token, "test-key", "studentportal")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sid != "sid-42" {
		t.Errorf("Parse() = %q, want sid-42", sid)
	}
}

func TestParseRejects(t *testing.T) {
	token, err := Issue("sid-42", "studentportal", "test-key", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expired, err := Issue("sid-42", "studentportal", "test-key", -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{name: "wrong key", token: token, key: "other-key", issuer: "studentportal"},
		{name: "wrong issuer", token: token, key: "test-key", issuer: "someone-else"},
		{name: "expired", token: expired, key: "test-key", issuer: "studentportal"},
		{name: "garbage", token: "not.a.token", key: "test-key", issuer: "studentportal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.token, tt.key, tt.issuer); err == nil {
				t.Error("Parse() accepted an invalid token")
			}
		})
	}
}
