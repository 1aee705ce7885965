package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{name: "pretty", format: constants.OutputFormatPretty},
		{name: "csv", format: constants.OutputFormatCSV},
		{name: "json", format: constants.OutputFormatJSON},
		{name: "empty", format: "", expectErr: true},
		{name: "uppercase", format: "JSON", expectErr: true},
		{name: "padded", format: " csv ", expectErr: true},
		{name: "yaml is input only", format: "yaml", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.expectErr && err == nil {
				t.Errorf("ValidateOutputFormat(%q) expected error but got none", tt.format)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("ValidateOutputFormat(%q) unexpected error = %v", tt.format, err)
			}
		})
	}
}

func TestValidateOutputFormatErrorMessage(t *testing.T) {
	err := ValidateOutputFormat("xml")
	if err == nil {
		t.Fatal("expected error for xml")
	}

	msg := err.Error()
	for _, want := range []string{
		constants.OutputFormatPretty,
		constants.OutputFormatCSV,
		constants.OutputFormatJSON,
		`"xml"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}
}
