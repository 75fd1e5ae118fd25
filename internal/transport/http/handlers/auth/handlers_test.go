package authhandler

import (
	"testing"
)

func TestValidateResetPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "Stronger123",
		},
		{
			name:     "too short",
			password: "S1hort",
			wantErr:  true,
		},
		{
			name:     "missing uppercase",
			password: "longpassword1",
			wantErr:  true,
		},
		{
			name:     "missing lowercase",
			password: "LONGPASSWORD1",
			wantErr:  true,
		},
		{
			name:     "missing number",
			password: "LongPassword",
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := validateResetPassword(tc.password)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestGenerateTokenIsURLSafe(t *testing.T) {
	token, err := generateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if len(token) < 40 {
		t.Fatalf("expected opaque token, got %q", token)
	}
	for _, r := range token {
		if r == '+' || r == '/' || r == '=' {
			t.Fatalf("expected url-safe encoding, got %q", token)
		}
	}
}
