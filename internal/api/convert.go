package api

import (
	"fmt"

	"laneboard/internal/clients"
)

// FromClient converts a stored client to its API representation.
func FromClient(client *clients.Client) Client {
	if client == nil {
		return Client{}
	}
	dto := Client{
		ID:           client.ID,
		Name:         client.Name,
		Description:  client.Description,
		Org:          client.Org,
		ContactName:  client.ContactName,
		ContactEmail: client.ContactEmail,
		Status:       string(client.Lane),
		Priority:     client.Priority,
	}
	if !client.CreatedAt.IsZero() {
		dto.CreatedAt = client.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !client.UpdatedAt.IsZero() {
		dto.UpdatedAt = client.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromClients converts stored clients into DTOs. The result is never nil so
// an empty board encodes as [].
func FromClients(list []clients.Client) []Client {
	out := make([]Client, 0, len(list))
	for i := range list {
		out = append(out, FromClient(&list[i]))
	}
	return out
}

// FromHealth converts a store health report.
func FromHealth(health clients.DatabaseHealth) Health {
	dto := Health{
		Status:        "ok",
		DatabasePath:  health.DBPath,
		SchemaVersion: health.SchemaVersion,
		Integrity:     health.IntegrityCheck,
		TotalClients:  health.TotalClients,
		Lanes:         make(map[string]int, len(health.LaneCounts)),
		Error:         health.Error,
	}
	for lane, count := range health.LaneCounts {
		dto.Lanes[string(lane)] = count
	}
	for _, violation := range health.Violations {
		dto.Violations = append(dto.Violations,
			fmt.Sprintf("%s: %d clients ranked %v", violation.Lane, violation.Count, violation.Priorities))
	}
	if !health.Healthy() {
		dto.Status = "degraded"
	}
	return dto
}
