// Command laneboard serves the client lane board and talks to a running
// server. Read-only board views and moves go through the HTTP API; `clients
// add` and `doctor` open the database directly.
package main
