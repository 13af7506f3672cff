package author

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToModels(t *testing.T) {
	id := uuid.New()
	models := ToModels([]Author{{ID: id, FirstName: "Ursula", LastName: "Le Guin"}})

	require.Len(t, models, 1)
	assert.Equal(t, id, models[0].ID)
	assert.Equal(t, "Ursula", models[0].FirstName)
	assert.Empty(t, ToModels(nil))
}

func TestApplyPatch(t *testing.T) {
	current := AuthorForUpdate{FirstName: "Ursula", LastName: "Le Guin"}

	tests := []struct {
		name     string
		document string
		want     AuthorForUpdate
		wantErr  bool
	}{
		{
			name:     "replace",
			document: `[{"op":"replace","path":"/firstName","value":"Ursula K."}]`,
			want:     AuthorForUpdate{FirstName: "Ursula K.", LastName: "Le Guin"},
		},
		{
			name:     "test then replace",
			document: `[{"op":"test","path":"/lastName","value":"Le Guin"},{"op":"replace","path":"/lastName","value":"LeGuin"}]`,
			want:     AuthorForUpdate{FirstName: "Ursula", LastName: "LeGuin"},
		},
		{
			name:     "remove leaves an empty field for validation",
			document: `[{"op":"remove","path":"/lastName"}]`,
			want:     AuthorForUpdate{FirstName: "Ursula"},
		},
		{
			name:     "failed test",
			document: `[{"op":"test","path":"/lastName","value":"Tolkien"}]`,
			wantErr:  true,
		},
		{
			name:     "not a patch",
			document: `{"firstName":"x"}`,
			wantErr:  true,
		},
		{
			name:     "wrong value type",
			document: `[{"op":"replace","path":"/firstName","value":42}]`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyPatch(current, []byte(tt.document))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
