// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trie

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRemove(t *testing.T) {
	tr := New[int]()

	_, replaced := tr.Insert("abc", 1)
	assert.False(t, replaced)
	prev, replaced := tr.Insert("abc", 2)
	assert.True(t, replaced)
	assert.Equal(t, 1, prev)

	v, ok := tr.Get("abc")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.True(t, tr.ContainsKey("abc"))
	assert.False(t, tr.ContainsKey("ab"))
	assert.Equal(t, 1, tr.Len())

	old, removed := tr.Remove("abc")
	assert.True(t, removed)
	assert.Equal(t, 2, old)
	_, removed = tr.Remove("abc")
	assert.False(t, removed)
	assert.Equal(t, 0, tr.Len())
}

func TestEmptyKey(t *testing.T) {
	tr := New[string]()
	tr.Insert("", "root")
	assert.True(t, tr.ContainsKey(""))
	assert.Equal(t, 1, tr.Len())

	// The empty key is a prefix of everything.
	res := tr.Search("xyz")
	require.Len(t, res, 1)
	assert.Equal(t, "", res[0].Key)
}

func TestSearchShortestFirst(t *testing.T) {
	tr := New[int]()
	tr.Insert("m", 1)
	tr.Insert("milli", 2)
	tr.Insert("mi", 3)
	tr.Insert("x", 4)

	res := tr.Search("millimeter")
	require.Len(t, res, 3)
	assert.Equal(t, "m", res[0].Key)
	assert.Equal(t, "mi", res[1].Key)
	assert.Equal(t, "milli", res[2].Key)

	// "mi" exists even though "mil" does not; only true prefixes come back.
	res = tr.Search("mi")
	require.Len(t, res, 2)
	assert.Equal(t, []string{"m", "mi"}, []string{res[0].Key, res[1].Key})

	assert.Empty(t, tr.Search("q"))
}

// TestAgainstMap drives the trie and a reference map through the same
// pseudo-random operation sequence, demands matching results and sizes at
// every step, and compares contents and searches at the end.
func TestAgainstMap(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	keys := make([]string, 40)
	alphabet := "abc"
	for i := range keys {
		n := rng.Intn(6)
		b := make([]byte, n)
		for j := range b {
			b[j] = alphabet[rng.Intn(len(alphabet))]
		}
		keys[i] = string(b)
	}

	tr := New[int]()
	ref := make(map[string]int)
	for step := 0; step < 2000; step++ {
		key := keys[rng.Intn(len(keys))]
		switch rng.Intn(4) {
		case 0, 1:
			val := rng.Intn(100)
			refPrev, refHad := ref[key]
			prev, had := tr.Insert(key, val)
			require.Equal(t, refHad, had, "step %d insert %q", step, key)
			if had {
				require.Equal(t, refPrev, prev)
			}
			ref[key] = val
		case 2:
			refPrev, refHad := ref[key]
			prev, had := tr.Remove(key)
			require.Equal(t, refHad, had, "step %d remove %q", step, key)
			if had {
				require.Equal(t, refPrev, prev)
			}
			delete(ref, key)
		case 3:
			tr.Purge()
		}
		require.Equal(t, len(ref), tr.Len(), "step %d", step)
	}

	entries := tr.Entries()
	require.Len(t, entries, len(ref))
	for _, e := range entries {
		v, ok := ref[e.Key]
		require.True(t, ok, "stray key %q", e.Key)
		require.Equal(t, v, e.Value)
	}

	// Search returns exactly the stored prefixes, shortest first.
	for _, key := range keys {
		var want []string
		for i := 0; i <= len(key); i++ {
			if _, ok := ref[key[:i]]; ok {
				want = append(want, key[:i])
			}
		}
		var got []string
		for _, e := range tr.Search(key) {
			got = append(got, e.Key)
		}
		require.Equal(t, want, got, "search %q", key)
	}
}

func TestIterators(t *testing.T) {
	tr := New[int]()
	want := map[string]int{"a": 1, "ab": 2, "b": 3, "": 4}
	for k, v := range want {
		tr.Insert(k, v)
	}

	keys := tr.Keys()
	sort.Strings(keys)
	assert.Equal(t, []string{"", "a", "ab", "b"}, keys)

	values := tr.Values()
	sort.Ints(values)
	assert.Equal(t, []int{1, 2, 3, 4}, values)

	got := map[string]int{}
	for _, e := range tr.Entries() {
		got[e.Key] = e.Value
	}
	assert.Equal(t, want, got)
}

func TestPurge(t *testing.T) {
	tr := New[int]()
	tr.Insert("abcdef", 1)
	tr.Insert("ab", 2)
	tr.Remove("abcdef")
	tr.Purge()

	// The long branch is gone but the shorter entry survives.
	assert.Equal(t, 1, tr.Len())
	v, ok := tr.Get("ab")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.False(t, tr.ContainsKey("abcdef"))
}
