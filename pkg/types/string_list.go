package types

import (
	"database/sql/driver"
	"encoding/json"
)

// StringList is a json-backed list column, used for material image URLs.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(StringList{})
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}
