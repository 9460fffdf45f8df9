package domain

// ThemeColors is the palette applied to the overlay.
// A partial palette leaves fields empty; empty fields never override.
type ThemeColors struct {
	Primary      string `json:"primary,omitempty" mapstructure:"primary"`
	PrimaryDark  string `json:"primaryDark,omitempty" mapstructure:"primaryDark"`
	PrimaryLight string `json:"primaryLight,omitempty" mapstructure:"primaryLight"`

	Background string `json:"background,omitempty" mapstructure:"background"`
	Surface    string `json:"surface,omitempty" mapstructure:"surface"`
	Text       string `json:"text,omitempty" mapstructure:"text"`
	TextMuted  string `json:"textMuted,omitempty" mapstructure:"textMuted"`
	Border     string `json:"border,omitempty" mapstructure:"border"`

	Success string `json:"success,omitempty" mapstructure:"success"`
	Warning string `json:"warning,omitempty" mapstructure:"warning"`
	Error   string `json:"error,omitempty" mapstructure:"error"`
	Info    string `json:"info,omitempty" mapstructure:"info"`

	OverlayBackground string `json:"overlayBackground,omitempty" mapstructure:"overlayBackground"`
}

// Theme is a named palette.
type Theme struct {
	Name   string      `json:"name"`
	Colors ThemeColors `json:"colors"`
}

// Features are the host-controlled feature flags.
type Features struct {
	EnableAutoStart  bool `json:"enableAutoStart"`
	EnableHelpButton bool `json:"enableHelpButton"`
}
