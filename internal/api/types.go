package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Client describes a ranked client in a transport-friendly format.
type Client struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Org          string `json:"org"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	Status       string `json:"status"`
	Priority     int    `json:"priority"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message     string `json:"message"`
	LongMessage string `json:"long_message"`
}

// Health summarizes store health for /healthz.
type Health struct {
	Status        string         `json:"status"`
	DatabasePath  string         `json:"database_path"`
	SchemaVersion int            `json:"schema_version"`
	Integrity     bool           `json:"integrity"`
	TotalClients  int            `json:"total_clients"`
	Lanes         map[string]int `json:"lanes"`
	Violations    []string       `json:"violations,omitempty"`
	Error         string         `json:"error,omitempty"`
}
