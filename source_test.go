package activator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/activator/entry"
	"github.com/viant/activator/source/envsrc"
	"github.com/viant/activator/source/hclsrc"
	"github.com/viant/activator/source/jsonsrc"
	"github.com/viant/activator/source/yamlsrc"
)

func TestActivator_Sources(t *testing.T) {
	parse := map[string]func() (entry.Set, error){
		"json": func() (entry.Set, error) {
			return jsonsrc.Parse([]byte(`{"host": "example.com", "port": 8080, "Timeout": "2s", "Tags": ["a", "b"]}`))
		},
		"yaml": func() (entry.Set, error) {
			return yamlsrc.Parse([]byte("host: example.com\nport: 8080\nTimeout: 2s\nTags: [a, b]\n"))
		},
		"hcl": func() (entry.Set, error) {
			return hclsrc.Parse([]byte("host = \"example.com\"\nport = 8080\nTimeout = \"2s\"\nTags = [\"a\", \"b\"]\n"), "server.hcl")
		},
		"env": func() (entry.Set, error) {
			set, err := envsrc.Parse([]byte("SERVER_HOST=example.com\nSERVER_PORT=8080\nSERVER_TIMEOUT=2s\nSERVER_TAGS=a,b\n"),
				envsrc.WithPrefix("SERVER_"), envsrc.WithListSeparator(","))
			return set, err
		},
	}
	expect := &Server{Host: "example.com", Port: 8080, Timeout: 2 * time.Second, Tags: []string{"a", "b"}}
	for name, fn := range parse {
		set, err := fn()
		require.NoError(t, err, name)
		actual, err := ActivateAs[Server](New(WithCaseInsensitiveNames()), set,
			Constructor{Fn: newServer, Params: []Param{{Name: "host"}, {Name: "port"}}})
		require.NoError(t, err, name)
		assert.Equal(t, expect, actual, name)
	}
}

func TestActivator_PositionalSource(t *testing.T) {
	set, err := jsonsrc.Parse([]byte(`["Val1", "Val2"]`))
	require.NoError(t, err)
	actual, err := ActivateAs[Listed](New(), set, Constructor{Fn: newListed, Params: []Param{{Name: "list"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Val1"}, actual.list)

	set, err = yamlsrc.Parse([]byte("- [1, 2]\n"))
	require.NoError(t, err)
	enumerated, err := ActivateAs[Enumerated](New(), set, Constructor{Fn: newIntListed, Params: []Param{{Name: "list"}}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, enumerated.values)
}

func TestActivator_EnvListSource(t *testing.T) {
	set, err := envsrc.Parse([]byte("APP_LIST=Val1\n"), envsrc.WithPrefix("APP_"),
		envsrc.WithListSeparator(","), envsrc.WithListNames("List"))
	require.NoError(t, err)
	actual, err := ActivateAs[Listed](New(), set, Constructor{Fn: newListed, Params: []Param{{Name: "List"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Val1"}, actual.list)
}

func TestActivator_NestedListSource(t *testing.T) {
	type Grouped struct {
		Groups [][]string
	}
	set, err := jsonsrc.Parse([]byte(`{"Groups": [["a", "b"], ["c"]]}`))
	require.NoError(t, err)
	actual, err := ActivateAs[Grouped](New(), set)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, actual.Groups)
}
