package notifier

import (
	"fmt"
	"strings"
	"time"
)

const maxMessageLen = 3800

// Anomaly formats an operator-attention message in a uniform shape.
func Anomaly(title string, lines ...string) string {
	var b strings.Builder
	b.WriteString("⚠️ " + strings.TrimSpace(title) + "\n\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("- " + line + "\n")
	}
	b.WriteString(fmt.Sprintf("\ntime: %s", time.Now().UTC().Format("2006-01-02 15:04:05 MST")))
	body := strings.TrimSpace(b.String())
	if len(body) > maxMessageLen {
		body = body[:maxMessageLen] + "..."
	}
	return body
}
