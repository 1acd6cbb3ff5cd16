package value

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city"`
	Zip  string `json:"zip,omitempty"`
}

type Audit struct {
	CreatedBy string `json:"createdBy"`
}

type user struct {
	Audit
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Secret   string            `json:"-"`
	Address  *address          `json:"address"`
	Tags     []string          `json:"tags"`
	Labels   map[string]string `json:"labels,omitempty"`
	internal string
}

type node struct {
	Name     string  `json:"name"`
	Children []*node `json:"children"`
	Parent   *node   `json:"parent,omitempty"`
}

func TestFromGoScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null{}},
		{"bool", true, Bool(true)},
		{"int", 42, Int(42)},
		{"negative int64", int64(-9), Int(-9)},
		{"uint", uint(7), Int(7)},
		{"float", 1.25, Float(1.25)},
		{"float32 keeps short form", float32(0.1), Float(0.1)},
		{"string", "hi", String("hi")},
		{"bytes", []byte{0xde, 0xad}, Bytes{0xde, 0xad}},
		{"big int", new(big.Int).Lsh(big.NewInt(1), 70), BigInt(new(big.Int).Lsh(big.NewInt(1), 70))},
		{"big rat integral", big.NewRat(6, 3), Int(2)},
		{"complex", complex(1, 2), String("(1+2i)")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGo(tt.in)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %#v", got)
		})
	}
}

func TestFromGoTime(t *testing.T) {
	ts := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)

	got, err := FromGo(ts)
	require.NoError(t, err)

	tv, ok := got.(Time)
	require.True(t, ok)
	assert.Equal(t, "2023-01-02T03:04:05.000Z", tv.Text())
}

func TestFromGoStruct(t *testing.T) {
	u := user{
		Audit:    Audit{CreatedBy: "admin"},
		ID:       1,
		Name:     "alice",
		Secret:   "hunter2",
		Address:  &address{City: "Oslo"},
		Tags:     []string{"a", "b"},
		internal: "hidden",
	}

	got, err := FromGo(u)
	require.NoError(t, err)

	want := Object{
		"createdBy": String("admin"),
		"id":        Int(1),
		"name":      String("alice"),
		"address":   Object{"city": String("Oslo")},
		"tags":      Array{String("a"), String("b")},
	}
	assert.True(t, Equal(want, got), "got %#v", got)
}

func TestFromGoNilFieldsAreNull(t *testing.T) {
	got, err := FromGo(user{})
	require.NoError(t, err)

	obj := got.(Object)
	assert.Equal(t, KindNull, obj["address"].Kind())
	assert.Equal(t, KindNull, obj["tags"].Kind())
	assert.NotContains(t, obj, "labels")
}

func TestFromGoSetIsSorted(t *testing.T) {
	set := map[string]struct{}{"pear": {}, "apple": {}, "fig": {}}

	for i := 0; i < 5; i++ {
		got, err := FromGo(set)
		require.NoError(t, err)
		assert.True(t, Equal(Set{String("apple"), String("fig"), String("pear")}, got))
	}
}

func TestFromGoMapKeys(t *testing.T) {
	got, err := FromGo(map[int]string{1: "one", 20: "twenty"})
	require.NoError(t, err)

	assert.True(t, Equal(Object{"1": String("one"), "20": String("twenty")}, got))
}

func TestFromGoFunc(t *testing.T) {
	got, err := FromGo(map[string]any{"cb": func(int) error { return nil }})
	require.NoError(t, err)

	obj := got.(Object)
	assert.Equal(t, KindFunction, obj["cb"].Kind())
}

func TestFromGoCopiesValues(t *testing.T) {
	inner := Object{"a": Int(1)}
	got, err := FromGo(Array{inner})
	require.NoError(t, err)

	inner["a"] = Int(2)
	assert.True(t, Equal(Array{Object{"a": Int(1)}}, got))
}

func TestFromGoCycles(t *testing.T) {
	t.Run("self referencing map", func(t *testing.T) {
		m := map[string]any{"name": "loop"}
		m["self"] = m

		_, err := FromGo(m)
		require.Error(t, err)
		var de *DepthExceededError
		require.ErrorAs(t, err, &de)
		assert.True(t, de.Cyclic)
		assert.Equal(t, "$.self", de.Path)
	})

	t.Run("parent pointer", func(t *testing.T) {
		root := &node{Name: "root"}
		child := &node{Name: "child", Parent: root}
		root.Children = []*node{child}

		_, err := FromGo(root)
		require.Error(t, err)
		assert.True(t, IsDepthExceeded(err))
	})

	t.Run("self referencing slice", func(t *testing.T) {
		s := make([]any, 1)
		s[0] = s

		_, err := FromGo(s)
		assert.True(t, IsDepthExceeded(err))
	})

	t.Run("self referencing value", func(t *testing.T) {
		obj := Object{}
		obj["me"] = obj

		_, err := FromGo(obj)
		assert.True(t, IsDepthExceeded(err))
	})
}

func TestFromGoSharedNonCyclic(t *testing.T) {
	shared := map[string]any{"x": 1}
	in := map[string]any{"a": shared, "b": shared, "c": []any{shared, shared}}

	got, err := FromGo(in)
	require.NoError(t, err)

	obj := got.(Object)
	assert.True(t, Equal(obj["a"], obj["b"]))
}

func TestFromGoSubSliceIsNotACycle(t *testing.T) {
	base := make([]any, 2)
	base[0] = "x"
	base[1] = base[:1]

	got, err := FromGo(base)
	require.NoError(t, err)
	assert.True(t, Equal(Array{String("x"), Array{String("x")}}, got))
}

func TestFromGoDepthLimit(t *testing.T) {
	var deep any = "leaf"
	for i := 0; i < 20; i++ {
		deep = []any{deep}
	}

	_, err := FromGoDepth(deep, 21)
	require.NoError(t, err)

	_, err = FromGoDepth(deep, 10)
	require.Error(t, err)
	var de *DepthExceededError
	require.ErrorAs(t, err, &de)
	assert.False(t, de.Cyclic)
	assert.Equal(t, 10, de.Limit)
}

func TestTrackerBalances(t *testing.T) {
	tr := NewTracker(2)
	m := map[string]any{}

	tok, err := tr.Enter(m, Root)
	require.NoError(t, err)
	_, err = tr.Enter(m, Root.Key("again"))
	require.Error(t, err)

	tr.Leave(tok)
	tok, err = tr.Enter(m, Root)
	require.NoError(t, err)
	tr.Leave(tok)

	assert.Equal(t, 2, tr.Limit())
	assert.Equal(t, DefaultMaxDepth, NewTracker(0).Limit())
}

func TestPath(t *testing.T) {
	p := Root.Key("body").Key("items").Index(3).Items()
	assert.Equal(t, Path("$.body.items[3][]"), p)
}
