package stub

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule answers queries containing Match (case-insensitive) with Response.
type Rule struct {
	Match    string `yaml:"match"`
	Response string `yaml:"response"`
}

// Script is the canned conversation served by the stub.
type Script struct {
	Default string `yaml:"default"`
	Replies []Rule `yaml:"replies"`
}

// DefaultScript returns the built-in replies.
func DefaultScript() *Script {
	return &Script{
		Default: "Mission Control copies. I have no briefing for that yet.",
		Replies: []Rule{
			{Match: "mission", Response: "Mission Alpha, Mission Beta"},
			{Match: "satellite", Response: "**Active satellites**\n\n- INSAT-3DR\n- Oceansat-3\n- SCATSAT-1"},
			{Match: "launch", Response: "Next launch window opens at **T-72h**."},
		},
	}
}

// LoadScript reads a YAML script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, r := range s.Replies {
		if strings.TrimSpace(r.Match) == "" {
			return nil, fmt.Errorf("reply %d: match is empty", i)
		}
	}
	return &s, nil
}

// Reply returns the response of the first matching rule, then Default,
// then an echo of the query.
func (s *Script) Reply(query string) string {
	q := strings.ToLower(query)
	for _, r := range s.Replies {
		if strings.Contains(q, strings.ToLower(r.Match)) {
			return r.Response
		}
	}
	if s.Default != "" {
		return s.Default
	}
	return "Echo: " + query
}
