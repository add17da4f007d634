package config

// Theme names accepted by ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// UIConfig holds user interface configuration.
type UIConfig struct {
	Theme         string `yaml:"theme"`          // auto, dark, light
	AssistantName string `yaml:"assistant_name"` // Shown above assistant replies
	Greeting      string `yaml:"greeting"`       // Seeded assistant message (empty = built-in greeting)
	Placeholder   string `yaml:"placeholder"`    // Input placeholder text

	// HealthInterval is how often the status bar re-probes /health.
	HealthInterval string `yaml:"health_interval"`

	// WordWrap for rendered markdown (0 = follow the window width)
	WordWrap int `yaml:"word_wrap,omitempty"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:          ThemeAuto,
		AssistantName:  "Mission Control",
		Placeholder:    "Ask about missions, satellites, launches, or space exploration...",
		HealthInterval: "30s",
	}
}
