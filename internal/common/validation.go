package common

import (
	"fmt"
	"slices"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/analyzer"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/formatters"
)

// ValidateOutputFormat checks format against the configured formats. An
// empty configuration allows every format the formatters can render.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	allowed := GetSupportedFormats(supportedFormats)
	if slices.Contains(allowed, format) {
		return nil
	}

	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("unsupported output format '%s'. Supported formats: %v", format, allowed), nil)
}

// GetSupportedFormats returns the configured formats that can be rendered,
// in configured order.
func GetSupportedFormats(supportedFormats []string) []string {
	renderable := formatters.GlobalRegistry.GetSupportedFormats()
	if len(supportedFormats) == 0 {
		return renderable
	}

	formats := make([]string, 0, len(supportedFormats))
	for _, f := range supportedFormats {
		if slices.Contains(renderable, f) && !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats
}

// ValidateAnalysisFlags checks an explicit mode and profile before any
// collaborator is connected. Empty values defer to the configured defaults.
func ValidateAnalysisFlags(mode, profile string) error {
	if mode != "" {
		if _, err := analyzer.ParseMode(mode); err != nil {
			return err
		}
	}
	if profile == "" {
		return nil
	}

	p, err := analyzer.LookupProfile(profile)
	if err != nil {
		return err
	}
	if mode != "" && string(p.Mode) != mode {
		return errors.NewConfigError(errors.ErrCodeUnknownProfile,
			fmt.Sprintf("weights profile %q does not apply to mode %q", profile, mode), nil)
	}
	return nil
}
