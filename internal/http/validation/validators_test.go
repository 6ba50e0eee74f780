package validation

import (
	"testing"
)

const errNameRequired = "Nome é obrigatório."

func TestRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		maxLen    int
		value     string
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid input",
			fieldName: "Nome",
			maxLen:    10,
			value:     "valid",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "Nome",
			maxLen:    10,
			value:     "",
			wantErr:   true,
			errMsg:    errNameRequired,
		},
		{
			name:      "whitespace only",
			fieldName: "Nome",
			maxLen:    10,
			value:     "   ",
			wantErr:   true,
			errMsg:    errNameRequired,
		},
		{
			name:      "exceeds max length",
			fieldName: "Nome",
			maxLen:    5,
			value:     "toolong",
			wantErr:   true,
			errMsg:    "Nome não pode exceder 5 caracteres.",
		},
		{
			name:      "exactly max length",
			fieldName: "Nome",
			maxLen:    5,
			value:     "exact",
			wantErr:   false,
		},
		{
			name:      "accented characters counted as runes",
			fieldName: "Nome",
			maxLen:    5,
			value:     "ação!",
			wantErr:   false,
		},
		{
			name:      "accented characters exceed limit",
			fieldName: "Nome",
			maxLen:    5,
			value:     "aprovação",
			wantErr:   true,
			errMsg:    "Nome não pode exceder 5 caracteres.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Required(tt.fieldName, tt.maxLen)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Required() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Required() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("Required() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestOptional(t *testing.T) {
	tests := []struct {
		name    string
		maxLen  int
		value   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty is allowed",
			maxLen:  10,
			value:   "",
			wantErr: false,
		},
		{
			name:    "whitespace only is allowed",
			maxLen:  10,
			value:   "   ",
			wantErr: false,
		},
		{
			name:    "within limit",
			maxLen:  10,
			value:   "short",
			wantErr: false,
		},
		{
			name:    "exceeds limit",
			maxLen:  5,
			value:   "toolong",
			wantErr: true,
			errMsg:  "Comentário não pode exceder 5 caracteres.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Optional("Comentário", tt.maxLen)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Optional() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Optional() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("Optional() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid address",
			value:   "contato@empresaabc.com",
			wantErr: false,
		},
		{
			name:    "empty string",
			value:   "",
			wantErr: true,
			errMsg:  "E-mail é obrigatório.",
		},
		{
			name:    "missing at sign",
			value:   "not-an-email",
			wantErr: true,
			errMsg:  "Informe um e-mail válido.",
		},
		{
			name:    "missing domain",
			value:   "user@",
			wantErr: true,
			errMsg:  "Informe um e-mail válido.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Email("E-mail")
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Email() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Email() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("Email() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestHTTPSURL(t *testing.T) {
	tests := []struct {
		name    string
		maxLen  int
		value   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid HTTPS URL",
			maxLen:  100,
			value:   "https://example.com/file.pdf",
			wantErr: false,
		},
		{
			name:    "valid HTTP URL",
			maxLen:  100,
			value:   "http://example.com",
			wantErr: false,
		},
		{
			name:    "empty string",
			maxLen:  100,
			value:   "",
			wantErr: true,
			errMsg:  "URL é obrigatório.",
		},
		{
			name:    "exceeds max length",
			maxLen:  10,
			value:   "https://example.com/very/long/path",
			wantErr: true,
			errMsg:  "URL não pode exceder 10 caracteres.",
		},
		{
			name:    "invalid URL",
			maxLen:  100,
			value:   "not a url",
			wantErr: true,
			errMsg:  "Informe uma URL http(s) válida.",
		},
		{
			name:    "missing scheme",
			maxLen:  100,
			value:   "example.com",
			wantErr: true,
			errMsg:  "Informe uma URL http(s) válida.",
		},
		{
			name:    "invalid scheme",
			maxLen:  100,
			value:   "ftp://example.com",
			wantErr: true,
			errMsg:  "Informe uma URL http(s) válida.",
		},
		{
			name:    "missing host",
			maxLen:  100,
			value:   "https://",
			wantErr: true,
			errMsg:  "Informe uma URL http(s) válida.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := HTTPSURL("URL", tt.maxLen)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("HTTPSURL() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("HTTPSURL() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("HTTPSURL() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestOneOf(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		value   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid option exact case",
			options: []string{"draft", "active", "paused"},
			value:   "draft",
			wantErr: false,
		},
		{
			name:    "valid option different case",
			options: []string{"draft", "active", "paused"},
			value:   "ACTIVE",
			wantErr: false,
		},
		{
			name:    "invalid option",
			options: []string{"draft", "active", "paused"},
			value:   "archived",
			wantErr: true,
			errMsg:  "Status deve ser um de: draft, active, paused",
		},
		{
			name:    "empty string",
			options: []string{"draft", "active", "paused"},
			value:   "",
			wantErr: true,
			errMsg:  "Status deve ser um de: draft, active, paused",
		},
		{
			name:    "whitespace trimmed",
			options: []string{"draft", "active", "paused"},
			value:   "  paused  ",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := OneOf("Status", tt.options)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("OneOf() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("OneOf() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("OneOf() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestNonNegativeAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty is allowed",
			value:   "",
			wantErr: false,
		},
		{
			name:    "integer",
			value:   "5000",
			wantErr: false,
		},
		{
			name:    "decimal with dot",
			value:   "1500.50",
			wantErr: false,
		},
		{
			name:    "decimal with comma",
			value:   "1500,50",
			wantErr: false,
		},
		{
			name:    "zero",
			value:   "0",
			wantErr: false,
		},
		{
			name:    "negative",
			value:   "-10",
			wantErr: true,
			errMsg:  "Orçamento não pode ser negativo.",
		},
		{
			name:    "not a number",
			value:   "abc",
			wantErr: true,
			errMsg:  "Orçamento deve ser um número.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NonNegativeAmount("Orçamento")
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("NonNegativeAmount() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("NonNegativeAmount() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("NonNegativeAmount() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestFieldValidator_SingleField(t *testing.T) {
	fv := New().Validate("name", "test", Required("Nome", 10))
	errs := fv.Errors()
	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}
}

func TestFieldValidator_SingleFieldWithError(t *testing.T) {
	fv := New().Validate("name", "", Required("Nome", 10))
	errs := fv.Errors()
	if len(errs) != 1 {
		t.Errorf("Expected 1 error, got %d", len(errs))
	}
	if errs["name"] != errNameRequired {
		t.Errorf("Expected %q, got %v", errNameRequired, errs["name"])
	}
}

func TestFieldValidator_MultipleFieldsWithErrors(t *testing.T) {
	fv := New().
		Validate("name", "", Required("Nome", 10)).
		Validate("budget", "-5", NonNegativeAmount("Orçamento"))
	errs := fv.Errors()
	if len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(errs))
	}
	if errs["name"] != errNameRequired {
		t.Errorf("Expected %q, got %v", errNameRequired, errs["name"])
	}
	if errs["budget"] != "Orçamento não pode ser negativo." {
		t.Errorf("Expected 'Orçamento não pode ser negativo.', got %v", errs["budget"])
	}
}

func TestFieldValidator_StopsAtFirstError(t *testing.T) {
	fv := New().Validate("email", "", Required("E-mail", 320), Email("E-mail"))
	errs := fv.Errors()
	if len(errs) != 1 {
		t.Errorf("Expected 1 error, got %d", len(errs))
	}
	// Should stop at Required error, not reach Email
	if errs["email"] != "E-mail é obrigatório." {
		t.Errorf("Expected required error, got %v", errs["email"])
	}
}

func TestFieldValidator_SecondValidatorTriggers(t *testing.T) {
	fv := New().Validate("email", "not-an-email", Required("E-mail", 320), Email("E-mail"))
	errs := fv.Errors()
	if len(errs) != 1 {
		t.Errorf("Expected 1 error, got %d", len(errs))
	}
	if errs["email"] != "Informe um e-mail válido." {
		t.Errorf("Expected 'Informe um e-mail válido.', got %v", errs["email"])
	}
}

func TestFieldValidator_EmptyErrors(t *testing.T) {
	fv := New()
	errs := fv.Errors()
	if len(errs) != 0 {
		t.Errorf("Expected empty errors map, got %v", errs)
	}
}
