package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	PassID  ID
	ChartID ID
)

func (id PassID) String() string  { return ID(id).String() }
func (id ChartID) String() string { return ID(id).String() }

// NewPassID identifies one recomputation pass
func NewPassID() PassID { return PassID(NewID()) }

// ParseChartID parses a string into ChartID
func ParseChartID(s string) (ChartID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("chart ID cannot be empty")
	}
	return ChartID(s), nil
}
