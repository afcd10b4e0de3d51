package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Ref
	}{
		{name: "id string", input: `"64f0c1"`, want: Ref{ID: "64f0c1"}},
		{name: "populated", input: `{"_id":"64f0c1","title":"Report"}`, want: Ref{ID: "64f0c1", Title: "Report"}},
		{name: "null", input: `null`, want: Ref{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var task struct {
				Task Ref `json:"task"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"task":`+tt.input+`}`), &task))
			assert.Equal(t, tt.want, task.Task)
		})
	}

	var r Ref
	assert.Error(t, json.Unmarshal([]byte(`42`), &r))
}

func TestRef_DisplayName(t *testing.T) {
	tests := []struct {
		ref  Ref
		want string
	}{
		{Ref{ID: "1", Name: "Team"}, "Team"},
		{Ref{ID: "1", Title: "Report"}, "Report"},
		{Ref{ID: "1", FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{Ref{ID: "1", Email: "ada@example.com"}, "ada@example.com"},
		{Ref{ID: "1"}, "1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ref.DisplayName())
	}
}

func TestUser_FullName(t *testing.T) {
	var nilUser *User
	assert.Empty(t, nilUser.FullName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
}
