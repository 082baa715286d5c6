package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title   Field[string]  `json:"title"`
	Promo   Field[string]  `json:"promo"`
	Content Field[*string] `json:"content"`
}

func TestFieldPresence(t *testing.T) {
	var s sample
	require.NoError(t, json.Unmarshal([]byte(`{"title":"","content":null}`), &s))

	assert.True(t, s.Title.Set)
	assert.False(t, s.Title.Null)
	assert.Equal(t, "", s.Title.Value)

	assert.False(t, s.Promo.Set)

	assert.True(t, s.Content.Set)
	assert.True(t, s.Content.Null)
}

func TestApply(t *testing.T) {
	title := "old title"
	promo := "old promo"

	var s sample
	require.NoError(t, json.Unmarshal([]byte(`{"title":""}`), &s))

	assert.True(t, s.Title.Apply(&title))
	assert.False(t, s.Promo.Apply(&promo))
	assert.Equal(t, "", title)
	assert.Equal(t, "old promo", promo)
}

func TestApplyPtr(t *testing.T) {
	old := "x"
	target := &old

	assert.False(t, Field[string]{}.ApplyPtr(&target))
	assert.Equal(t, "x", *target)

	assert.True(t, Field[string]{Set: true, Null: true}.ApplyPtr(&target))
	assert.Nil(t, target)

	assert.True(t, Of("y").ApplyPtr(&target))
	require.NotNil(t, target)
	assert.Equal(t, "y", *target)
}
