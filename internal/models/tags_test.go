package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Tags
	}{
		{"empty", "", Tags{}},
		{"only separators", " , ,, ", Tags{}},
		{"trims and keeps order", " nature, documentary ,4k", Tags{"nature", "documentary", "4k"}},
		{"drops duplicates", "travel,japan,travel, japan", Tags{"travel", "japan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}

func TestTags_ValueScan(t *testing.T) {
	v, err := Tags{"a", "b c"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"a","b c"}`, v)

	var got Tags
	require.NoError(t, got.Scan([]byte(`{"a","b c"}`)))
	assert.Equal(t, Tags{"a", "b c"}, got)

	empty, err := Tags(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 400, StatusFor(NewValidationError("bad")))
	assert.Equal(t, 401, StatusFor(NewUnauthenticatedError("who")))
	assert.Equal(t, 404, StatusFor(NewNotFoundError("Video", 1)))
	assert.Equal(t, 500, StatusFor(assert.AnError))
}
