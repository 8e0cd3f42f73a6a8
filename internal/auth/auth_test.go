package auth

import (
	"errors"
	"testing"
	"time"
)

func TestCredentials_Authenticate(t *testing.T) {
	creds := NewCredentials(map[string]string{
		"Abbie":   "1111",
		"Michael": "2222",
	})

	tests := []struct {
		name    string
		user    string
		code    string
		wantErr error
	}{
		{
			name: "correct code",
			user: "Abbie",
			code: "1111",
		},
		{
			name:    "wrong code",
			user:    "Abbie",
			code:    "9999",
			wantErr: ErrWrongCode,
		},
		{
			name:    "unknown user",
			user:    "Mallory",
			code:    "1111",
			wantErr: ErrWrongCode,
		},
		{
			name:    "empty code",
			user:    "Michael",
			code:    "",
			wantErr: ErrWrongCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := creds.Authenticate(tt.user, tt.code)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	token, err := mgr.Generate("Abbie")
	if err != nil {
		t.Fatalf("Generate() unexpected error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := mgr.Validate(token)
	if err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}
	if claims.User != "Abbie" {
		t.Errorf("claims.User = %q, want %q", claims.User, "Abbie")
	}
}

func TestJWTManager_RejectsTamperedToken(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	token, err := mgr.Generate("Abbie")
	if err != nil {
		t.Fatalf("Generate() unexpected error = %v", err)
	}

	if _, err := mgr.Validate(token + "x"); err == nil {
		t.Error("Validate() accepted a tampered token")
	}

	other := NewJWTManager("different-secret", time.Hour)
	if _, err := other.Validate(token); err == nil {
		t.Error("Validate() accepted a token signed with another secret")
	}
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	mgr := NewJWTManager("test-secret", -time.Minute)

	token, err := mgr.Generate("Abbie")
	if err != nil {
		t.Fatalf("Generate() unexpected error = %v", err)
	}

	if _, err := mgr.Validate(token); err == nil {
		t.Error("Validate() accepted an expired token")
	}
}
