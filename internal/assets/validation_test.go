package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"simple name", "default", nil},
		{"hyphen", "my-style", nil},
		{"underscore", "my_style", nil},
		{"digits", "style123", nil},
		{"mixed case", "MyStyle", nil},
		{"empty", "", ErrInvalidAssetName},
		{"forward slash", "path/to/style", ErrInvalidAssetName},
		{"backslash", `path\to\style`, ErrInvalidAssetName},
		{"dot", "style.css", ErrInvalidAssetName},
		{"double dot", "..", ErrInvalidAssetName},
		{"leading hyphen", "-style", ErrInvalidAssetName},
		{"space", "my style", ErrInvalidAssetName},
		{"null byte", "style\x00", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
