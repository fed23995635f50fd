package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "ELB", false},
		{"valid with spaces", "EC2 Instance 1", false},
		{"valid cidr", "VPC 10.0.0.0/16", false},
		{"valid unicode", "Région eu-west-3", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"newline", "foo\nbar", true},
		{"null byte", "foo\x00bar", true},
		{"tab", "foo\tbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateIdentifier(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty allowed", "", false},
		{"single line", "Load Balancer", false},
		{"multi line", "Auto Scaling\nGroup", false},

		{"too long", strings.Repeat("a", 2000), true},
		{"carriage return", "foo\rbar", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "load_balanced_ec2_autoscaling_application", false},
		{"valid with dash", "my-diagram", false},
		{"valid with dot", "diagram.v2", false},

		{"empty", "", true},
		{"with path /", "out/diagram", true},
		{"with path \\", "out\\diagram", true},
		{"hidden file", ".diagram", true},
		{"traversal", "..", true},
		{"control char", "dia\x01gram", true},
		{"too long", strings.Repeat("a", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFilename) {
				t.Errorf("ValidateFilename(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFilename)
			}
		})
	}
}
