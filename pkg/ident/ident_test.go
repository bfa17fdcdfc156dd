package ident

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "simple", input: "a", want: "a"},
		{name: "underscore", input: "_", want: "_"},
		{name: "dotted path", input: "db.schema.table", want: "db.schema.table"},
		{name: "digits inside", input: "t1.c2", want: "t1.c2"},
		{name: "collapse dots", input: "a....b..c", want: "a.b.c"},
		{name: "backticks verbatim", input: "`my table`", want: "`my table`"},
		{name: "backticks keep dots", input: "`a..b`", want: "`a..b`"},
		{
			name:    "empty",
			input:   "",
			wantErr: "name cannot be an empty str",
		},
		{
			name:    "leading digit",
			input:   "2a",
			wantErr: "illegal name, due to bad characters in these locations: [(0, '2')]",
		},
		{
			name:    "every offending position",
			input:   "1a-b.",
			wantErr: "illegal name, due to bad characters in these locations: [(0, '1'), (2, '-'), (4, '.')]",
		},
		{
			name:    "trailing dot",
			input:   "a.",
			wantErr: "illegal name, due to bad characters in these locations: [(1, '.')]",
		},
		{
			name:    "space",
			input:   "a b",
			wantErr: "illegal name, due to bad characters in these locations: [(1, ' ')]",
		},
		{
			name:    "half quoted",
			input:   "`ab",
			wantErr: "illegal name, due to bad characters in these locations: [(0, '`')]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.True(t, errors.Is(err, ErrInvalidName))
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestValidationErrorDetail(t *testing.T) {
	_, err := New("a-b-c")
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "a-b-c", verr.Name)
	assert.Equal(t, []BadChar{{Index: 1, Char: '-'}, {Index: 3, Char: '-'}}, verr.Bad)
}

func TestIdentifierEquality(t *testing.T) {
	assert.Equal(t, Must("a..b"), Must("a.b"))
	assert.NotEqual(t, Must("a.b"), Must("a.c"))
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() { Must("") })
}
