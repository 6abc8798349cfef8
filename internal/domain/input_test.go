package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		raw    string
		value  float64
		truthy bool
	}{
		{`12.5`, 12.5, true},
		{`0`, 0, false},
		{`"7"`, 7, true},
		{`"0"`, 0, true},
		{`" 3 "`, 3, true},
		{`""`, 0, false},
		{`null`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.Equal(t, tt.value, n.Value)
			assert.Equal(t, tt.truthy, n.Truthy)
		})
	}

	for _, bad := range []string{`"abc"`, `true`, `{}`, `[1]`} {
		var n Number
		assert.Error(t, json.Unmarshal([]byte(bad), &n), bad)
	}
}

func TestNumber_Int(t *testing.T) {
	assert.Equal(t, 7, Number{Value: 7.9}.Int())
	assert.Equal(t, -2, Number{Value: -2.5}.Int())
}

func TestStringList_Unmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want StringList
	}{
		{`"https://x/a.png"`, StringList{"https://x/a.png"}},
		{`["a", 1, "b", null]`, StringList{"a", "b"}},
		{`42`, StringList{}},
		{`{"url":"x"}`, StringList{}},
	}
	for _, tt := range tests {
		var l StringList
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &l))
		assert.Equal(t, tt.want, l, tt.raw)
	}
}

func TestSpecList_Unmarshal(t *testing.T) {
	var l SpecList
	require.NoError(t, json.Unmarshal([]byte(`[
		{"key":"Weight","value":2.5},
		"{\"key\":\"Size\",\"value\":\"L\"}",
		"oops",
		"[1,2]",
		7
	]`), &l))

	require.True(t, l.IsArray)
	require.Len(t, l.Entries, 5)
	assert.Equal(t, SpecEntry{Spec: Specification{Key: "Weight", Value: "2.5"}}, l.Entries[0])
	assert.Equal(t, SpecEntry{Spec: Specification{Key: "Size", Value: "L"}}, l.Entries[1])
	assert.Equal(t, SpecEntry{Spec: Specification{Key: "Feature", Value: "oops"}, Fallback: FallbackUndecodable}, l.Entries[2])
	assert.Equal(t, FallbackNotObject, l.Entries[3].Fallback)
	assert.Equal(t, Specification{Key: "Feature", Value: "7"}, l.Entries[4].Spec)

	var notArray SpecList
	require.NoError(t, json.Unmarshal([]byte(`"Color: Red"`), &notArray))
	assert.False(t, notArray.IsArray)
	assert.Empty(t, notArray.Specifications())
}

func TestProductInput_DistinguishesAbsentKeys(t *testing.T) {
	var in ProductInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"","images":[]}`), &in))

	require.NotNil(t, in.Name)
	assert.Equal(t, "", *in.Name)
	require.NotNil(t, in.Images)
	assert.Empty(t, *in.Images)
	assert.Nil(t, in.Description)
	assert.Nil(t, in.Specifications)
	assert.False(t, in.Price.truthy())
}
