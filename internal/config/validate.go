package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charliek/logview/internal/constants"
	"github.com/charliek/logview/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(config *Config) error {
	var errs []string

	if err := validate.Struct(config); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, describe(fe).Error())
		}
	}

	seen := make(map[string]bool, len(config.Providers))
	if !config.SelfLogs.Disabled {
		seen[constants.SelfProviderName] = true
	}
	for i, p := range config.Providers {
		if p.Name == "" {
			continue
		}
		if err := ValidateProviderName(p.Name); err != nil {
			errs = append(errs, fmt.Sprintf("providers[%d].%s", i, err))
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Sprintf("providers[%d].name: duplicate provider %q", i, p.Name))
		}
		seen[p.Name] = true
	}

	if len(seen) == 0 {
		errs = append(errs, "providers: at least one provider must be defined when self_logs is disabled")
	}
	if config.DefaultProvider != "" && !seen[config.DefaultProvider] {
		errs = append(errs, fmt.Sprintf("default_provider: %q is not a configured provider", config.DefaultProvider))
	}
	if strings.ContainsAny(config.UI.RoutePrefix, " \t\n?#") {
		errs = append(errs, "ui.route_prefix: must not contain whitespace, '?' or '#'")
	}
	if first, _, _ := strings.Cut(config.UI.RoutePrefix, "/"); reservedPrefixes[strings.ToLower(first)] {
		errs = append(errs, fmt.Sprintf("ui.route_prefix: %q is reserved by the server", first))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// describe turns a validator field error into a yaml-path message.
func describe(fe validator.FieldError) ValidationError {
	field := yamlPath(fe.Namespace())
	switch fe.Tag() {
	case "required", "required_if":
		return ValidationError{Field: field, Message: "is required"}
	case "oneof":
		return ValidationError{Field: field, Message: fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())}
	case "min":
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at least %s", fe.Param())}
	case "max":
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())}
	default:
		return ValidationError{Field: field, Message: "failed " + fe.Tag()}
	}
}

var fieldNames = map[string]string{
	"EnvFile":         "env_file",
	"DefaultProvider": "default_provider",
	"SelfLogs":        "self_logs",
	"RoutePrefix":     "route_prefix",
	"HomeURL":         "home_url",
	"AuthType":        "auth_type",
	"HeadContent":     "head_content",
	"BodyContent":     "body_content",
	"LocalOnly":       "local_only",
	"PasswordHash":    "password_hash",
	"MaxEntries":      "max_entries",
	"UI":              "ui",
	"JWT":             "jwt",
	"DSN":             "dsn",
	"DB":              "db",
}

// reservedPrefixes are served by the host router ahead of the UI.
var reservedPrefixes = map[string]bool{"health": true, "metrics": true}

// yamlPath maps "Config.Providers[0].DSN" to "providers[0].dsn".
func yamlPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		name, index, _ := strings.Cut(part, "[")
		if mapped, ok := fieldNames[name]; ok {
			name = mapped
		} else {
			name = strings.ToLower(name)
		}
		if index != "" {
			name += "[" + index
		}
		parts[i] = name
	}
	return strings.Join(parts, ".")
}

// ValidateProviderName checks if a provider name is valid
func ValidateProviderName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "provider name cannot be empty"}
	}
	if strings.ContainsAny(name, " \t\n/\\?#&") {
		return &ValidationError{Field: "name", Message: "provider name cannot contain whitespace, path separators or query characters"}
	}
	return nil
}
