package dal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

type (
	// Record is one localized content item: language code -> text. Keys that
	// are not language codes may hold any JSON value and are kept as is.
	Record map[string]any

	// Card is a mnemonic picture card: an image file plus localized captions.
	Card struct {
		File     string
		Captions Record
	}

	Role string

	User struct {
		Username     string `json:"username"`
		PasswordHash string `json:"password_hash"`
		Role         Role   `json:"role"`
	}

	AuditEntry struct {
		Timestamp int64          `json:"ts"`
		Actor     string         `json:"actor"`
		Action    string         `json:"action"`
		Details   map[string]any `json:"details"`
	}
)

// Text returns the localized value or an empty string when it is missing or
// not a string.
func (r Record) Text(lang string) string {
	s, _ := r[lang].(string)
	return s
}

func (r Record) Clone() Record {
	res := make(Record, len(r))
	for k, v := range r {
		res[k] = v
	}
	return res
}

// UnmarshalJSON keeps numbers as json.Number so that extra keys are written
// back unchanged.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	*r = raw
	return nil
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

func (c Card) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(c.Captions)+1)
	for k, v := range c.Captions {
		flat[k] = v
	}
	flat["file"] = c.File
	return json.Marshal(flat)
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var flat Record
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("unmarshal card: %w", err)
	}
	c.File = flat.Text("file")
	delete(flat, "file")
	c.Captions = flat
	return nil
}
