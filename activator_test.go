package activator

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/activator/conv"
	"github.com/viant/activator/entry"
	"github.com/viant/tagly/format/text"
)

type (
	Holder struct {
		List []string
		Ints []int
		Num  int
	}

	Untyped struct {
		List []interface{}
	}

	Ports []int

	Collected struct {
		Ports Ports
	}

	Listed struct {
		list []string
	}

	Enumerated struct {
		values []int
	}

	Server struct {
		Host    string
		Port    int
		Timeout time.Duration
		Tags    []string
	}
)

func newListed(list []string) *Listed {
	return &Listed{list: list}
}

func newEmptyListed() *Listed {
	return &Listed{}
}

func newIntListed(list []int) Enumerated {
	return Enumerated{values: list}
}

func newEnumerated(seq iter.Seq[int]) *Enumerated {
	ret := &Enumerated{}
	for v := range seq {
		ret.values = append(ret.values, v)
	}
	return ret
}

func newServer(host string, port int) (*Server, error) {
	if port < 0 {
		return nil, fmt.Errorf("invalid port: %v", port)
	}
	return &Server{Host: host, Port: port}, nil
}

func newLocalServer(port int) *Server {
	return &Server{Host: "localhost", Port: port}
}

func newDefaultServer() *Server {
	return &Server{Host: "0.0.0.0", Port: 80}
}

func TestActivator_Activate_Properties(t *testing.T) {
	var testCases = []struct {
		description string
		set         entry.Set
		expect      *Holder
	}{
		{
			description: "list of strings property",
			set:         entry.MustSet(entry.NamedList("List", "Val1", "Val2")),
			expect:      &Holder{List: []string{"Val1", "Val2"}},
		},
		{
			description: "list of ints property",
			set:         entry.MustSet(entry.NamedList("Ints", "1", "2")),
			expect:      &Holder{Ints: []int{1, 2}},
		},
		{
			description: "scalar property",
			set:         entry.MustSet(entry.Named("Num", "123")),
			expect:      &Holder{Num: 123},
		},
		{
			description: "single value for list property",
			set:         entry.MustSet(entry.Named("List", "Val1")),
			expect:      &Holder{List: []string{"Val1"}},
		},
		{
			description: "unmatched entries ignored",
			set:         entry.MustSet(entry.Named("Other", "x"), entry.Positional("y"), entry.Named("Num", "1")),
			expect:      &Holder{Num: 1},
		},
	}
	activator := New()
	for _, testCase := range testCases {
		actual, err := ActivateAs[Holder](activator, testCase.set)
		require.NoError(t, err, testCase.description)
		if diff := cmp.Diff(testCase.expect, actual); diff != "" {
			t.Errorf("%s: unexpected result (-want +got):\n%s", testCase.description, diff)
		}
	}
}

func TestActivator_Activate_Constructors(t *testing.T) {
	activator := New()

	t.Run("positional sequence", func(t *testing.T) {
		actual, err := ActivateAs[Enumerated](activator, entry.MustSet(entry.PositionalList("1", "2")),
			Constructor{Fn: newIntListed, Params: []Param{{Name: "list"}}})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, actual.values)
	})

	t.Run("second positional value dropped", func(t *testing.T) {
		actual, err := ActivateAs[Listed](activator, entry.MustSet(entry.Positional("Val1"), entry.Positional("Val2")),
			Constructor{Fn: newListed, Params: []Param{{Name: "list"}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Val1"}, actual.list)
	})

	t.Run("positional aggregation", func(t *testing.T) {
		aggregating := New(WithPositionalAggregation())
		actual, err := ActivateAs[Listed](aggregating, entry.MustSet(entry.Positional("Val1"), entry.Positional("Val2")),
			Constructor{Fn: newListed, Params: []Param{{Name: "list"}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Val1", "Val2"}, actual.list)
	})

	t.Run("named list", func(t *testing.T) {
		actual, err := ActivateAs[Listed](activator, entry.MustSet(entry.NamedList("list", "a", "b")),
			Constructor{Fn: newListed, Params: []Param{{Name: "list"}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, actual.list)
	})

	t.Run("optional list without entries", func(t *testing.T) {
		actual, err := ActivateAs[Listed](activator, entry.MustSet(),
			Constructor{Fn: newListed, Params: []Param{{Name: "list", Optional: true}}})
		require.NoError(t, err)
		assert.Nil(t, actual.list)
	})

	t.Run("optional list with named list", func(t *testing.T) {
		actual, err := ActivateAs[Listed](activator, entry.MustSet(entry.NamedList("list", "Val1", "Val2")),
			Constructor{Fn: newListed, Params: []Param{{Name: "list", Optional: true}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Val1", "Val2"}, actual.list)
	})

	t.Run("optional list constructor preferred over no args", func(t *testing.T) {
		actual, err := ActivateAs[Listed](activator, entry.MustSet(entry.NamedList("list", "Val1", "Val2")),
			Constructor{Fn: newEmptyListed},
			Constructor{Fn: newListed, Params: []Param{{Name: "list", Optional: true}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Val1", "Val2"}, actual.list)

		actual, err = ActivateAs[Listed](activator, entry.MustSet(),
			Constructor{Fn: newEmptyListed},
			Constructor{Fn: newListed, Params: []Param{{Name: "list", Optional: true}}})
		require.NoError(t, err)
		assert.Nil(t, actual.list)
	})

	t.Run("enumerable", func(t *testing.T) {
		actual, err := ActivateAs[Enumerated](activator, entry.MustSet(entry.NamedList("seq", "3", "4", "5")),
			Constructor{Fn: newEnumerated, Params: []Param{{Name: "seq"}}})
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4, 5}, actual.values)
	})

	t.Run("constructor and properties", func(t *testing.T) {
		set := entry.MustSet(entry.Named("host", "example.com"), entry.Named("port", "8080"),
			entry.Named("Timeout", "3s"), entry.NamedList("Tags", "a", "b"), entry.Named("Host", "override.com"))
		actual, err := ActivateAs[Server](activator, set,
			Constructor{Fn: newServer, Params: []Param{{Name: "host"}, {Name: "port"}}})
		require.NoError(t, err)
		assert.Equal(t, &Server{Host: "override.com", Port: 8080, Timeout: 3 * time.Second, Tags: []string{"a", "b"}}, actual)
	})

	t.Run("constructor error", func(t *testing.T) {
		_, err := ActivateAs[Server](activator, entry.MustSet(entry.Named("host", "h"), entry.Named("port", "-1")),
			Constructor{Fn: newServer, Params: []Param{{Name: "host"}, {Name: "port"}}})
		require.Error(t, err)
		constructorErr := &ConstructorError{}
		require.True(t, errors.As(err, &constructorErr))
		assert.Contains(t, err.Error(), "invalid port: -1")
	})
}

func TestActivator_Activate_Untyped(t *testing.T) {
	actual, err := ActivateAs[Untyped](New(), entry.MustSet(entry.NamedList("List", "1", "b")))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"1", "b"}, actual.List)
}

func TestActivator_Activate_Collection(t *testing.T) {
	actual, err := ActivateAs[Collected](New(), entry.MustSet(entry.NamedList("Ports", "80", "443")))
	require.NoError(t, err)
	assert.Equal(t, Ports{80, 443}, actual.Ports)
	assert.Equal(t, reflect.TypeOf(Ports{}), reflect.TypeOf(actual.Ports))
}

func TestActivator_Select(t *testing.T) {
	desc, err := Describe[Server](
		WithConstructorDecl(newDefaultServer),
		WithConstructorDecl(newLocalServer, "port"),
		WithConstructorDecl(newServer, "host", "port,default=80"),
	)
	require.NoError(t, err)
	var testCases = []struct {
		description string
		set         entry.Set
		expect      int
	}{
		{description: "no entries", set: entry.MustSet(), expect: 0},
		{description: "port only", set: entry.MustSet(entry.Named("port", "1")), expect: 1},
		{description: "host only", set: entry.MustSet(entry.Named("host", "h")), expect: 2},
		{description: "host and port", set: entry.MustSet(entry.Named("host", "h"), entry.Named("port", "1")), expect: 2},
		{description: "invalid port skips candidates", set: entry.MustSet(entry.Named("port", "abc")), expect: 0},
	}
	activator := New()
	for _, testCase := range testCases {
		ctor, binding, err := activator.Select(desc, testCase.set)
		require.NoError(t, err, testCase.description)
		assert.Same(t, desc.Constructors()[testCase.expect], ctor, testCase.description)
		assert.True(t, binding.Satisfiable(), testCase.description)
	}
}

func TestActivator_Select_Deterministic(t *testing.T) {
	desc, err := Describe[Server](
		WithConstructorDecl(newServer, "host", "port"),
		WithConstructorDecl(newServer, "host", "port"),
	)
	require.NoError(t, err)
	set := entry.MustSet(entry.Named("host", "h"), entry.Named("port", "1"))
	activator := New()
	for i := 0; i < 10; i++ {
		ctor, _, err := activator.Select(desc, set)
		require.NoError(t, err)
		assert.Same(t, desc.Constructors()[0], ctor)
	}

	_, _, err = New(WithStrictSelection()).Select(desc, set)
	ambiguous := &AmbiguousSelectionError{}
	require.True(t, errors.As(err, &ambiguous))
	assert.Len(t, ambiguous.Candidates, 2)
}

func TestActivator_Select_NoViable(t *testing.T) {
	desc, err := Describe[Server](
		WithConstructorDecl(newLocalServer, "port"),
		WithConstructorDecl(newServer, "host", "port"),
	)
	require.NoError(t, err)

	_, _, err = New().Select(desc, entry.MustSet(entry.Named("port", "abc")))
	require.Error(t, err)
	noViable := &NoViableConstructorError{}
	require.True(t, errors.As(err, &noViable))
	assert.Len(t, noViable.Candidates, 2)
	convErr := &conv.ConversionError{}
	assert.True(t, errors.As(err, &convErr))
	unbound := &UnboundParamError{}
	require.True(t, errors.As(err, &unbound))
	assert.Equal(t, "host", unbound.Name)
	assert.Contains(t, err.Error(), "no viable constructor for activator.Server")
}

func TestActivator_Match(t *testing.T) {
	desc, err := Describe[Server](WithConstructor(newServer, Param{Name: "host", Optional: true, HasDefault: true, Default: "localhost"}, Param{Name: "port", Optional: true, HasDefault: true, Default: "8080"}))
	require.NoError(t, err)
	activator := New()

	binding := activator.Match(entry.MustSet(), desc.Constructors()[0])
	require.True(t, binding.Satisfiable())
	assert.Equal(t, 0, binding.Bound)
	assert.Equal(t, 2, binding.Defaulted)
	assert.Equal(t, "localhost", binding.Args[0].Interface())
	assert.Equal(t, 8080, binding.Args[1].Interface())

	binding = activator.Match(entry.MustSet(entry.Named("port", "1"), entry.Named("x", "y")), desc.Constructors()[0])
	assert.Equal(t, 1, binding.Bound)
	assert.Equal(t, 1, binding.Defaulted)
	assert.Equal(t, map[string]bool{"port": true}, binding.Consumed())

	binding = activator.Match(entry.MustSet(entry.NamedList("port", "1", "2")), desc.Constructors()[0])
	assert.False(t, binding.Satisfiable())
	assert.True(t, errors.Is(binding.Err(), ErrSequenceForScalar))

	binding = activator.Match(entry.MustSet(entry.NamedList("port", "7")), desc.Constructors()[0])
	require.True(t, binding.Satisfiable())
	assert.Equal(t, 7, binding.Args[1].Interface())
}

func TestActivator_Match_ContainerRequiresSequence(t *testing.T) {
	desc, err := Describe[Listed](WithConstructorDecl(newListed, "list"))
	require.NoError(t, err)
	activator := New()
	binding := activator.Match(entry.MustSet(entry.Named("list", "a"), entry.Positional("b")), desc.Constructors()[0])
	require.True(t, binding.Satisfiable())
	assert.Equal(t, []string{"b"}, binding.Args[0].Interface())
	assert.Equal(t, []int{1}, binding.ConsumedPositional())
	assert.Empty(t, binding.Consumed())
}

func TestActivator_NameMatching(t *testing.T) {
	type Pool struct {
		MaxConnections int
	}
	set := entry.MustSet(entry.Named("max_connections", "10"))

	actual, err := ActivateAs[Pool](New(), set)
	require.NoError(t, err)
	assert.Equal(t, 0, actual.MaxConnections)

	actual, err = ActivateAs[Pool](New(WithNameFormat(text.CaseFormatLowerCamel)), set)
	require.NoError(t, err)
	assert.Equal(t, 10, actual.MaxConnections)

	actual, err = ActivateAs[Pool](New(WithCaseInsensitiveNames()), entry.MustSet(entry.Named("maxconnections", "5")))
	require.NoError(t, err)
	assert.Equal(t, 5, actual.MaxConnections)
}

func TestActivator_PropertyTags(t *testing.T) {
	type Job struct {
		Name    string    `config:"name"`
		Secret  string    `config:"-"`
		StartAt time.Time `format:"timeLayout=2006-01-02"`
		Mode    Mode
	}
	converter := conv.NewConverter(conv.DefaultOptions())
	require.NoError(t, converter.RegisterEnum(reflect.TypeOf(Mode(0)), map[string]interface{}{"fast": 1, "slow": 2}))
	set := entry.MustSet(entry.Named("name", "nightly"), entry.Named("Secret", "x"),
		entry.Named("StartAt", "2024-03-01"), entry.Named("Mode", "SLOW"))
	actual, err := ActivateAs[Job](New(WithConverter(converter)), set)
	require.NoError(t, err)
	assert.Equal(t, "nightly", actual.Name)
	assert.Equal(t, "", actual.Secret)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), actual.StartAt)
	assert.Equal(t, Mode(2), actual.Mode)

	_, err = ActivateAs[Job](New(), entry.MustSet(entry.Named("StartAt", "01/03/2024")))
	propErr := &PropertyError{}
	require.True(t, errors.As(err, &propErr))
	assert.Equal(t, "StartAt", propErr.Property)
}

type Mode int

func TestActivator_PresenceMarker(t *testing.T) {
	type JobHas struct {
		Name  bool
		Retry bool
	}
	type Job struct {
		Name  string
		Retry int
		Has   *JobHas `presenceMarker:"true"`
	}
	desc, err := Describe[Job]()
	require.NoError(t, err)
	require.NotNil(t, desc.Marker())
	assert.Len(t, desc.Properties(), 2)

	result, err := New().Activate(desc, entry.MustSet(entry.Named("Retry", "0")))
	require.NoError(t, err)
	job := result.(*Job)
	require.NotNil(t, job.Has)
	assert.Equal(t, JobHas{Retry: true}, *job.Has)
	assert.True(t, desc.IsConfigured(job, "Retry"))
	assert.False(t, desc.IsConfigured(job, "Name"))

	type TaskHas struct {
		Name bool
	}
	type Task struct {
		Name  string
		Retry int
		Has   *TaskHas `presenceMarker:"true"`
	}
	partial, err := Describe[Task]()
	require.NoError(t, err)
	result, err = New().Activate(partial, entry.MustSet(entry.Named("Retry", "2")))
	require.NoError(t, err)
	task := result.(*Task)
	assert.Equal(t, 2, task.Retry)
	assert.Nil(t, task.Has)
	assert.False(t, partial.IsConfigured(task, "Retry"))

	result, err = New().Activate(partial, entry.MustSet(entry.Named("Name", "sync"), entry.Named("Retry", "3")))
	require.NoError(t, err)
	task = result.(*Task)
	require.NotNil(t, task.Has)
	assert.Equal(t, TaskHas{Name: true}, *task.Has)
	assert.True(t, partial.IsConfigured(task, "Name"))
}

func TestActivator_ActivateNamed(t *testing.T) {
	registry := NewRegistry()
	desc, err := Describe[Holder]()
	require.NoError(t, err)
	require.NoError(t, registry.Register("holder", desc))
	duplicate := &DuplicateTypeError{}
	require.True(t, errors.As(registry.Register("holder", desc), &duplicate))
	assert.Equal(t, []string{"holder"}, registry.Names())

	activator := New(WithRegistry(registry))
	result, err := activator.ActivateNamed("holder", entry.MustSet(entry.Named("Num", "3")))
	require.NoError(t, err)
	assert.Equal(t, &Holder{Num: 3}, result)

	_, err = activator.ActivateNamed("missing", entry.MustSet())
	unknown := &UnknownTypeError{}
	require.True(t, errors.As(err, &unknown))
}

func TestActivator_Logger(t *testing.T) {
	buffer := bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := ActivateAs[Server](New(WithLogger(logger)), entry.MustSet(entry.Named("port", "1")),
		Constructor{Fn: newLocalServer, Params: []Param{{Name: "port"}}})
	require.NoError(t, err)
	output := buffer.String()
	assert.True(t, strings.Contains(output, "constructor candidate"))
	assert.True(t, strings.Contains(output, "satisfiable=true"))
	assert.True(t, strings.Contains(output, "constructor selected"))
}

func TestActivator_Concurrent(t *testing.T) {
	activator := New()
	desc, err := Describe[Server](WithConstructorDecl(newServer, "host", "port"))
	require.NoError(t, err)
	wg := sync.WaitGroup{}
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set := entry.MustSet(entry.Named("host", "h"), entry.Named("port", fmt.Sprint(i)))
			result, err := activator.Activate(desc, set)
			if err != nil {
				errs <- err
				return
			}
			if port := result.(*Server).Port; port != i {
				errs <- fmt.Errorf("expected port %v, but had %v", i, port)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestNewType_Errors(t *testing.T) {
	var testCases = []struct {
		description string
		option      TypeOption
		expect      string
	}{
		{description: "not func", option: WithConstructor(1), expect: "constructor is not a func"},
		{description: "param count", option: WithConstructor(newLocalServer), expect: "expected 1 params, but had 0"},
		{description: "result type", option: WithConstructorDecl(newListed, "list"), expect: "expected activator.Server or *activator.Server result"},
		{description: "second result", option: WithConstructorDecl(func() (*Server, int) { return nil, 0 }), expect: "second result has to be error"},
		{description: "duplicate param", option: WithConstructorDecl(newServer, "host", "host"), expect: "duplicate param"},
		{description: "bad default", option: WithConstructor(newLocalServer, Param{Name: "port", Optional: true, HasDefault: true, Default: []string{}}), expect: "is not assignable"},
		{description: "bad decl", option: WithConstructorDecl(newLocalServer, "port,unknown"), expect: "unsupported option"},
	}
	for _, testCase := range testCases {
		_, err := NewType(reflect.TypeOf(Server{}), testCase.option)
		require.Error(t, err, testCase.description)
		assert.Contains(t, err.Error(), testCase.expect, testCase.description)
	}
	_, err := NewType(reflect.TypeOf(Server{}), WithConstructor(1))
	assert.True(t, errors.Is(err, ErrNotFunc))
}

func TestConstructor_Panic(t *testing.T) {
	_, err := ActivateAs[Server](New(), entry.MustSet(),
		Constructor{Fn: func() *Server { panic("boom") }})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConstructorPanic))

	_, err = ActivateAs[Server](New(), entry.MustSet(),
		Constructor{Fn: func() (*Server, error) { return nil, nil }})
	assert.True(t, errors.Is(err, ErrNilInstance))
}
