package scriptforge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchArgs struct {
	Query string `json:"query" desc:"The search query" required:"true"`
	Limit int    `json:"limit" desc:"Maximum results"`
}

func decodeSchema(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))
	return schema
}

func TestSchemaFor(t *testing.T) {
	t.Run("builds an object schema from struct tags", func(t *testing.T) {
		schema := decodeSchema(t, MustSchemaFor[searchArgs]())

		assert.Equal(t, "object", schema["type"])

		props := schema["properties"].(map[string]any)
		query := props["query"].(map[string]any)
		assert.Equal(t, "string", query["type"])
		assert.Equal(t, "The search query", query["description"])

		limit := props["limit"].(map[string]any)
		assert.Equal(t, "integer", limit["type"])

		assert.Equal(t, []any{"query"}, schema["required"])
	})

	t.Run("non-struct types produce an empty object schema", func(t *testing.T) {
		schema := decodeSchema(t, MustSchemaFor[string]())
		assert.Equal(t, "object", schema["type"])
		assert.Empty(t, schema["properties"])
	})

	t.Run("type mapping", func(t *testing.T) {
		type kitchenSink struct {
			S    string            `json:"s"`
			F    float64           `json:"f"`
			B    bool              `json:"b"`
			L    []string          `json:"l"`
			M    map[string]string `json:"m"`
			P    *int              `json:"p"`
			skip string
		}

		schema := decodeSchema(t, MustSchemaFor[kitchenSink]())
		props := schema["properties"].(map[string]any)

		assert.Equal(t, "string", props["s"].(map[string]any)["type"])
		assert.Equal(t, "number", props["f"].(map[string]any)["type"])
		assert.Equal(t, "boolean", props["b"].(map[string]any)["type"])

		list := props["l"].(map[string]any)
		assert.Equal(t, "array", list["type"])
		assert.Equal(t, "string", list["items"].(map[string]any)["type"])

		assert.Equal(t, "object", props["m"].(map[string]any)["type"])
		assert.Equal(t, "integer", props["p"].(map[string]any)["type"])

		_, hasUnexported := props["skip"]
		assert.False(t, hasUnexported)
	})
}

func TestSchemaBuilder(t *testing.T) {
	t.Run("fluent overrides", func(t *testing.T) {
		raw := SchemaFrom[searchArgs]().
			Desc("limit", "How many results to return").
			Required("limit").
			Enum("query", "news", "images").
			Build()
		schema := decodeSchema(t, raw)

		props := schema["properties"].(map[string]any)
		limit := props["limit"].(map[string]any)
		assert.Equal(t, "How many results to return", limit["description"])

		query := props["query"].(map[string]any)
		assert.Equal(t, []any{"news", "images"}, query["enum"])

		assert.ElementsMatch(t, []any{"query", "limit"}, schema["required"])
	})

	t.Run("required is deduplicated", func(t *testing.T) {
		raw := SchemaFrom[searchArgs]().Required("query").Required("query").Build()
		schema := decodeSchema(t, raw)
		assert.Equal(t, []any{"query"}, schema["required"])
	})
}
