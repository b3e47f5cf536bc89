package main

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/choiday/boost-container-pretty-printer/manifest"
	"github.com/choiday/boost-container-pretty-printer/render"
)

func writeVectorManifest(t *testing.T) string {
	t.Helper()
	header := make([]byte, 24)
	binary.LittleEndian.PutUint64(header[0:], 0x2000)
	binary.LittleEndian.PutUint64(header[8:], 2)
	binary.LittleEndian.PutUint64(header[16:], 2)
	elems := make([]byte, 8)
	binary.LittleEndian.PutUint32(elems[0:], 5)
	binary.LittleEndian.PutUint32(elems[4:], 6)

	m := &manifest.Manifest{
		Memory: manifest.MemoryDef{Segments: []manifest.SegmentDef{
			{Addr: 0x1000, Data: hex.EncodeToString(header)},
			{Addr: 0x2000, Data: hex.EncodeToString(elems)},
		}},
		Types: []manifest.TypeDef{
			{Kind: "scalar", Name: "int", Size: 4, Signed: true},
			{Kind: "scalar", Name: "std::size_t", Size: 8},
			{Kind: "struct", Name: "vec_holder", Size: 24, Fields: []manifest.FieldDef{
				{Name: "m_start", Offset: 0, Type: "int*"},
				{Name: "m_size", Offset: 8, Type: "std::size_t"},
				{Name: "m_capacity", Offset: 16, Type: "std::size_t"},
			}},
			{Kind: "struct", Name: "boost::container::vector<int, void>", Size: 24,
				Fields:       []manifest.FieldDef{{Name: "m_holder", Offset: 0, Type: "vec_holder"}},
				TemplateArgs: []string{"int"}},
		},
		Roots: []manifest.RootDef{
			{Name: "nums", Type: "boost::container::vector<int, void>", Addr: 0x1000},
		},
	}
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "capture.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestRunPrint(t *testing.T) {
	path := writeVectorManifest(t)
	var out bytes.Buffer
	err := runPrint(&out, path, nil, nil, render.DefaultOptions())
	require.NoError(t, err)
	require.Contains(t, out.String(), "nums = boost::container::vector of length 2, capacity 2")
	require.Contains(t, out.String(), "[0] = 5")
	require.Contains(t, out.String(), "[1] = 6")
}

func TestRunPrintDisabled(t *testing.T) {
	path := writeVectorManifest(t)
	var out bytes.Buffer
	err := runPrint(&out, path, nil,
		[]string{"boost::container::vector"}, render.DefaultOptions())
	require.NoError(t, err)
	require.NotContains(t, out.String(), "of length")
	require.Contains(t, out.String(), "nums = <boost::container::vector<int, void>>")
}

func TestRunPrintUnknownRoot(t *testing.T) {
	path := writeVectorManifest(t)
	var out bytes.Buffer
	err := runPrint(&out, path, []string{"missing"}, nil, render.DefaultOptions())
	require.ErrorContains(t, err, `no root named "missing"`)
}

func TestRunPrintUnknownSubprinter(t *testing.T) {
	path := writeVectorManifest(t)
	var out bytes.Buffer
	err := runPrint(&out, path, nil, []string{"nope"}, render.DefaultOptions())
	require.ErrorContains(t, err, `no subprinter named "nope"`)
}
