package api

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Ref представляет ссылку на сущность, которую сервер отдает
// либо как id-строку, либо как вложенный объект (populate).
type Ref struct {
	ID        string `json:"_id"`
	Name      string `json:"name,omitempty"`
	Title     string `json:"title,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// UnmarshalJSON принимает и строку, и объект
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

// DisplayName возвращает человекочитаемое имя ссылки (или id, если объект не раскрыт)
func (r Ref) DisplayName() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Title != "":
		return r.Title
	case r.FirstName != "" || r.LastName != "":
		return strings.TrimSpace(r.FirstName + " " + r.LastName)
	case r.Email != "":
		return r.Email
	default:
		return r.ID
	}
}
