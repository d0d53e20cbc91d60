package common

import (
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectError      bool
	}{
		{name: "json", format: "json", supportedFormats: supported},
		{name: "text", format: "text", supportedFormats: supported},
		{name: "markdown", format: "markdown", supportedFormats: supported},
		{name: "unsupported format", format: "xml", supportedFormats: supported, expectError: true},
		{name: "case sensitive", format: "JSON", supportedFormats: supported, expectError: true},
		{name: "empty format", format: "", supportedFormats: supported, expectError: true},
		{name: "no restrictions allows anything", format: "xml", supportedFormats: nil},
		{name: "single format valid", format: "json", supportedFormats: []string{"json"}},
		{name: "single format invalid", format: "text", supportedFormats: []string{"json"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)
			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestValidateOutputFormatMessage(t *testing.T) {
	err := ValidateOutputFormat("xml", []string{"json", "text"})
	if err == nil {
		t.Fatal("expected error")
	}
	want := `unknown output format "xml" (supported: json, text)`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}
