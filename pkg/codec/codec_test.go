package codec_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shelf/pkg/codec"
	"github.com/aretw0/shelf/pkg/core"
)

func sample() *core.Snapshot {
	return &core.Snapshot{
		Version:    core.SnapshotVersion,
		ExportedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Namespaces: map[string]json.RawMessage{
			"teams":    json.RawMessage(`[{"id":"1","name":"Reds","score":3,"tags":["a"]}]`),
			"settings": json.RawMessage(`{"darkMode":false,"language":"pt-BR"}`),
		},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"json", "yaml"} {
		t.Run(name, func(t *testing.T) {
			c, err := codec.ForName(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, c.Encode(&buf, sample()))

			got, err := c.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, core.SnapshotVersion, got.Version)
			assert.True(t, sample().ExportedAt.Equal(got.ExportedAt))
			require.Len(t, got.Namespaces, 2)
			for ns, raw := range sample().Namespaces {
				assert.JSONEq(t, string(raw), string(got.Namespaces[ns]), ns)
			}
		})
	}
}

func TestYAMLIsBlockStyle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, codec.YAML{}.Encode(&buf, sample()))

	out := buf.String()
	assert.Contains(t, out, "namespaces:")
	assert.NotContains(t, out, "[{")
	assert.True(t, strings.Contains(out, "darkMode: false"), out)
}

func TestForPath(t *testing.T) {
	assert.Equal(t, "yaml", codec.ForPath("backup.yml").Name())
	assert.Equal(t, "yaml", codec.ForPath("backup.YAML").Name())
	assert.Equal(t, "json", codec.ForPath("backup.json").Name())
	assert.Equal(t, "json", codec.ForPath("backup").Name())

	_, err := codec.ForName("toml")
	assert.Error(t, err)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := codec.JSON{}.Decode(strings.NewReader("{"))
	assert.Error(t, err)
	_, err = codec.YAML{}.Decode(strings.NewReader("namespaces: ["))
	assert.Error(t, err)
}
