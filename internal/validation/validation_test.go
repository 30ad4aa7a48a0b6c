package validation

import (
	"errors"
	"testing"

	"fitfam/internal/apperror"
	"fitfam/internal/models"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperror.ErrBadRequest) {
				t.Errorf("ValidateEmail(%q) error should be a bad request, got %v", tt.email, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "password123", false},
		{"password exactly 8 characters", "pass1234", false},
		{"password too short", "pass123", true},
		{"empty password", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidatePassword("short"); err == nil || err.Error() != "password must be at least 8 characters" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestStruct(t *testing.T) {
	badURL := "not a url"
	status := "sleeping"

	tests := []struct {
		name    string
		input   any
		wantMsg string
	}{
		{
			name:  "valid user",
			input: models.NewUser{Email: "a@b.co", Password: "password123", FirstName: "A", LastName: "B"},
		},
		{
			name:    "missing fields use json names",
			input:   models.NewUser{Email: "a@b.co", Password: "password123"},
			wantMsg: "firstName is required; lastName is required",
		},
		{
			name:    "bad url",
			input:   models.NewFamily{FamilyName: "Smiths", ImageURL: &badURL},
			wantMsg: "imageUrl must be a valid URL",
		},
		{
			name:    "oneof",
			input:   models.MembershipUpdate{MemStatus: &status},
			wantMsg: "memStatus must be one of: active pending inactive",
		},
		{
			name:    "zero id",
			input:   models.NewComment{ResultID: 0, UserID: 1, Content: "hi"},
			wantMsg: "resultId is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Struct() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Struct() expected error %q", tt.wantMsg)
			}
			if !errors.Is(err, apperror.ErrBadRequest) {
				t.Errorf("Struct() error should be a bad request, got %v", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Struct() message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> move", "bold move"},
		{"<script>alert(1)</script>hi", "hi"},
		{"  padded  ", "padded"},
		{"Don't & won't", "Don't & won't"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StripHTML(tt.input); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if StripHTMLPtr(nil) != nil {
		t.Error("StripHTMLPtr(nil) should be nil")
	}
}
