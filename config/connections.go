// connections.go manages saved database connections.
//
// Connections are stored in ~/.smartbi/connections.json so users can
// point the chat at a named database without retyping credentials.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Connection is a named, saveable database connection profile.
type Connection struct {
	Name string   `json:"name"`
	DB   DBConfig `json:"db"`
}

// ConnectionStore manages saved connections on disk.
type ConnectionStore struct {
	path        string
	Connections []Connection `json:"connections"`
}

// NewConnectionStore loads dir/connections.json. A missing file yields an
// empty store.
func NewConnectionStore(dir string) (*ConnectionStore, error) {
	store := &ConnectionStore{
		path: filepath.Join(dir, "connections.json"),
	}

	data, err := os.ReadFile(store.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("parse connections: %w", err)
	}

	return store, nil
}

// Save writes all connections to disk.
func (s *ConnectionStore) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Add adds or updates a connection by name.
func (s *ConnectionStore) Add(conn Connection) {
	for i, c := range s.Connections {
		if c.Name == conn.Name {
			s.Connections[i] = conn
			return
		}
	}
	s.Connections = append(s.Connections, conn)
}

// Delete removes a connection by name and reports whether it existed.
func (s *ConnectionStore) Delete(name string) bool {
	for i, c := range s.Connections {
		if c.Name == name {
			s.Connections = append(s.Connections[:i], s.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// Get retrieves a connection by name.
func (s *ConnectionStore) Get(name string) (Connection, bool) {
	for _, c := range s.Connections {
		if c.Name == name {
			return c, true
		}
	}
	return Connection{}, false
}

// Names returns the saved connection names, sorted.
func (s *ConnectionStore) Names() []string {
	names := make([]string, 0, len(s.Connections))
	for _, c := range s.Connections {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}
