package password

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		personal []string
		want     error
	}{
		{name: "too short", password: "Ab1", want: ErrTooShort},
		{name: "short in bytes only", password: "Épicé1", want: ErrTooShort},
		{name: "no uppercase", password: "lowercase123", want: ErrNoUppercase},
		{name: "no lowercase", password: "UPPERCASE123", want: ErrNoLowercase},
		{name: "no digit", password: "NoDigitsHere", want: ErrNoDigit},
		{name: "repetitive", password: "Aaaaaaa1", want: ErrTooWeak},
		{name: "strong", password: "Tomato-Soup-42", want: nil},
		{
			name:     "contains name",
			password: "Lovelace-Bakes-42",
			personal: []string{"Ada Lovelace", "ada@example.com"},
			want:     ErrPersonal,
		},
		{
			name:     "contains email",
			password: "Xjulia.child-42",
			personal: []string{"J", "julia.child@example.com"},
			want:     ErrPersonal,
		},
		{
			name:     "short name part allowed",
			password: "Ada-Bakes-Bread-42",
			personal: []string{"Ada", "ada@example.com"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.password, tt.personal...)
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
