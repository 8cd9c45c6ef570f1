package logging

import "strings"

// FormatSubject builds the lane/client subject string used in console output.
func FormatSubject(lane, clientID string) string {
	lane = strings.TrimSpace(lane)
	clientID = strings.TrimSpace(clientID)
	parts := make([]string, 0, 2)
	if lane != "" {
		if len(lane) > 1 {
			lane = strings.ToUpper(lane[:1]) + strings.ToLower(lane[1:])
		} else {
			lane = strings.ToUpper(lane)
		}
		parts = append(parts, lane)
	}
	if clientID != "" {
		parts = append(parts, "Client #"+clientID)
	}
	return strings.Join(parts, " · ")
}
