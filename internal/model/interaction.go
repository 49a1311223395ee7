package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JSONStringArray stores a string slice as a JSON column. Postgres keeps it
// in jsonb, sqlite in a plain text column.
type JSONStringArray []string

// Value implements the driver.Valuer interface
func (a JSONStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Interaction records a single generate call: what the user sent, what the
// provider returned, and how parsing went.
type Interaction struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"interaction_id"`
	CreatedAt    time.Time       `json:"timestamp"`
	Ingredients  JSONStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	RawResponse  string          `gorm:"type:text" json:"raw_response"`
	RecipeCount  int             `json:"recipe_count"`
	Success      bool            `json:"success"`
	ErrorMessage string          `gorm:"type:text" json:"error_message,omitempty"`
}
