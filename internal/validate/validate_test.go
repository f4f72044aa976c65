// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/irpairs/pkg/types"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
	return path
}

func TestCheck(t *testing.T) {
	root := t.TempDir()
	orig := writeFile(t, root, "GREY_1.jpg")
	proc := writeFile(t, root, "IR_1.PNG")
	tif := writeFile(t, root, "IR_2.tif")
	dir := filepath.Join(root, "sub.jpg")
	require.NoError(t, os.Mkdir(dir, 0o755))
	opts := Options{Root: root, Extensions: []string{".jpg", ".png"}}

	tests := []struct {
		name string
		pair types.Pair
		want Reason
	}{
		{"complete", types.Pair{Original: orig, Processed: proc}, ReasonNone},
		{"no original", types.Pair{Processed: proc}, ReasonMissingOriginal},
		{"no processed", types.Pair{Original: orig}, ReasonMissingProcessed},
		{"missing file", types.Pair{Original: orig, Processed: filepath.Join(root, "gone.jpg")}, ReasonNotFile},
		{"directory", types.Pair{Original: dir, Processed: proc}, ReasonNotFile},
		{"extension", types.Pair{Original: orig, Processed: tif}, ReasonExtension},
		{"root sentinel", types.Pair{Original: root, Processed: proc}, ReasonPlaceholder},
		{"dot sentinel", types.Pair{Original: ".", Processed: proc}, ReasonPlaceholder},
		{"reserved placeholder", types.Pair{Original: orig, Processed: "./not_file"}, ReasonPlaceholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.pair
			assert.Equal(t, tt.want, Check(&p, opts))
		})
	}
}

func TestFilterNeverKeepsUnverifiedPairs(t *testing.T) {
	root := t.TempDir()
	pairs := map[string]*types.Pair{
		"a": {Original: writeFile(t, root, "a_V.jpg"), Processed: writeFile(t, root, "a_T.jpg")},
		"b": {Original: writeFile(t, root, "b_V.jpg"), Processed: filepath.Join(root, "b_T.jpg")},
		"c": {Original: writeFile(t, root, "c_V.jpg")},
	}
	for _, p := range pairs {
		p.Metadata.Weather = "晴"
	}
	opts := Options{Root: root, Extensions: []string{".jpg"}}

	valid, rejected := Partition(pairs, opts)
	require.Len(t, valid, 1)
	assert.Same(t, pairs["a"], valid["a"])
	assert.Equal(t, map[string]Reason{"b": ReasonNotFile, "c": ReasonMissingProcessed}, rejected)

	for _, p := range valid {
		for _, path := range []string{p.Original, p.Processed} {
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.True(t, info.Mode().IsRegular())
		}
	}

	// Filtering does not touch the input map or its pairs.
	assert.Len(t, pairs, 3)
	assert.Equal(t, "晴", pairs["a"].Metadata.Weather)
	assert.Equal(t, valid, Filter(pairs, opts))
}

func TestCheckCustomReserved(t *testing.T) {
	root := t.TempDir()
	orig := writeFile(t, root, "GREY_1.jpg")
	placeholder := writeFile(t, root, "placeholder.jpg")

	p := types.Pair{Original: orig, Processed: placeholder}
	assert.Equal(t, ReasonNone, Check(&p, Options{Root: root}))
	assert.Equal(t, ReasonPlaceholder, Check(&p, Options{Root: root, Reserved: []string{placeholder}}))
}
