package staff

import (
	"strings"

	"go-kintai/internal/tablestore"
)

// Staff is one row of the staff table. Password holds a bcrypt hash; rows
// written before hashing was introduced may still hold plain text.
type Staff struct {
	ID       string
	Name     string
	Password string
}

func FromRow(row tablestore.Record) Staff {
	return Staff{
		ID:       row.Get("staff_id"),
		Name:     row.Get("name"),
		Password: row.Get("password"),
	}
}

func (s Staff) Row() tablestore.Record {
	return tablestore.Record{
		"staff_id": s.ID,
		"name":     s.Name,
		"password": s.Password,
	}
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
