package weather

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeKeyValueList(t *testing.T) {
	t.Run("LastWriteWins", func(t *testing.T) {
		raw := []any{
			map[string]any{"a": 1},
			map[string]any{"b": 2},
			map[string]any{"a": 3},
		}
		got := MergeKeyValueList(raw)
		assert.Equal(t, CurrentConditions{"a": 3, "b": 2}, got)
	})

	t.Run("PlainObjectPassesThrough", func(t *testing.T) {
		got := MergeKeyValueList(map[string]any{"x": 1})
		assert.Equal(t, CurrentConditions{"x": 1}, got)
	})

	t.Run("NilAndScalarsYieldEmpty", func(t *testing.T) {
		assert.Empty(t, MergeKeyValueList(nil))
		assert.NotNil(t, MergeKeyValueList(nil))
		assert.Empty(t, MergeKeyValueList("oops"))
		assert.Empty(t, MergeKeyValueList(json.Number("42")))
	})

	t.Run("MalformedEntriesSkipped", func(t *testing.T) {
		raw := []any{
			nil,
			"text",
			7,
			map[string]any{},
			[]any{map[string]any{"nested": true}},
			map[string]any{"temp": 4.7},
		}
		assert.Equal(t, CurrentConditions{"temp": 4.7}, MergeKeyValueList(raw))
	})

	t.Run("MultiKeyEntryUsesSmallestKey", func(t *testing.T) {
		raw := []any{map[string]any{"hum": "80", "z": 1, "b": 2}}
		got := MergeKeyValueList(raw)
		assert.Len(t, got, 1)
		assert.Equal(t, 2, got["b"])
	})

	t.Run("DecodedUpstreamPayload", func(t *testing.T) {
		var raw any
		err := json.Unmarshal([]byte(`[{"time":"12:00"},{"temp":4.7},{"hum":"80"},{"temp":5.1}]`), &raw)
		assert.NoError(t, err)

		got := MergeKeyValueList(raw)
		assert.Equal(t, "12:00", got["time"])
		assert.Equal(t, 5.1, got["temp"])
		assert.Equal(t, "80", got["hum"])
		assert.Nil(t, got.Value("pressure"))
	})
}
