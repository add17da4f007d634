package dispatch

import (
	"fmt"
	"strings"
)

// Diagnostic formats a failed dispatch as a markdown assistant message.
func Diagnostic(baseURL string, err error) string {
	detail := "Unknown error occurred"
	if err != nil && err.Error() != "" {
		detail = err.Error()
	}

	var b strings.Builder
	b.WriteString("🚨 **Connection Error**\n\n")
	fmt.Fprintf(&b, "Couldn't reach Mission Control at %s\n\n", baseURL)
	fmt.Fprintf(&b, "**Details:** %s\n\n", detail)
	b.WriteString("**Troubleshooting:**\n")
	for _, step := range troubleshooting(baseURL) {
		b.WriteString("- ")
		b.WriteString(step)
		b.WriteString("\n")
	}
	return b.String()
}

func troubleshooting(baseURL string) []string {
	return []string{
		"Ensure the backend server is running",
		fmt.Sprintf("Check if the API is accessible at %s/chat", baseURL),
		"Verify CORS settings allow requests from this client",
	}
}
