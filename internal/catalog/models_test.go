package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want ID
	}{
		{"integer", `12`, "12"},
		{"integral float", `12.0`, "12"},
		{"string", `"abc-1"`, "abc-1"},
		{"numeric string", `"7"`, "7"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestIDMarshal(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}{A: "12", B: "x1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":"x1"}`, string(out))
}

func TestProductDecoding(t *testing.T) {
	t.Parallel()

	raw := `{"results":[
		{"id":1,"nome":"Sofá Retrátil","id_category":"sofas","id_provider":3,"foto":"produtos/sofa.jpg"},
		{"id":2,"nome":"Sofá Canto","id_category":"sofas","id_provider":4,"foto":null}
	]}`
	var env resultsEnvelope[Product]
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	require.Len(t, env.Results, 2)

	assert.Equal(t, ID("3"), env.Results[0].ProviderID)
	assert.Equal(t, "produtos/sofa.jpg", env.Results[0].PhotoPath())
	assert.Nil(t, env.Results[1].Photo)
	assert.Empty(t, env.Results[1].PhotoPath())
}
