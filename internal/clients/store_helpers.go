package clients

import (
	"database/sql"
	"errors"
	"time"
)

const clientColumns = "id, name, description, org, contact_name, contact_email, status, priority, created_at, updated_at"

// laneOrder sorts rows in board order; unknown lanes sort last.
const laneOrder = `CASE status WHEN 'backlog' THEN 0 WHEN 'in-progress' THEN 1 WHEN 'complete' THEN 2 ELSE 3 END`

func scanClient(scanner interface{ Scan(dest ...any) error }) (*Client, error) {
	var (
		id           int64
		name         string
		description  sql.NullString
		org          sql.NullString
		contactName  sql.NullString
		contactEmail sql.NullString
		statusStr    string
		priority     int
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&description,
		&org,
		&contactName,
		&contactEmail,
		&statusStr,
		&priority,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	client := &Client{
		ID:           id,
		Name:         name,
		Description:  description.String,
		Org:          org.String,
		ContactName:  contactName.String,
		ContactEmail: contactEmail.String,
		Lane:         Lane(statusStr),
		Priority:     priority,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		client.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		client.UpdatedAt = updated
	}
	return client, nil
}

func scanClients(rows *sql.Rows) ([]Client, error) {
	defer rows.Close()
	var out []Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *client)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
