package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKind_IsValid(t *testing.T) {
	assert.True(t, KindFile.IsValid())
	assert.True(t, KindDirectory.IsValid())
	assert.False(t, FileKind("symlink").IsValid())
	assert.False(t, FileKind("").IsValid())
}

func TestNewFile(t *testing.T) {
	f := NewFile("src/app.py", "print('hi')", 11)

	text, ok := f.Text()
	require.True(t, ok)
	assert.Equal(t, "print('hi')", text)
	assert.True(t, f.HasContent())
	assert.True(t, f.IsFile())
	assert.Equal(t, int64(11), f.Size)
	assert.Equal(t, "app.py", f.Base())
	assert.Equal(t, ".py", f.Ext())
}

func TestNewFile_EmptyContentIsPresent(t *testing.T) {
	f := NewFile("empty.txt", "", 0)

	text, ok := f.Text()
	assert.True(t, ok)
	assert.Empty(t, text)
}

func TestNewBinaryFile(t *testing.T) {
	f := NewBinaryFile("logo.PNG", 2048)

	_, ok := f.Text()
	assert.False(t, ok)
	assert.True(t, f.IsFile())
	assert.Equal(t, int64(2048), f.Size)
	assert.Equal(t, ".png", f.Ext())
}

func TestNewDirectory(t *testing.T) {
	d := NewDirectory("src/utils")

	assert.False(t, d.IsFile())
	assert.False(t, d.HasContent())
	assert.Equal(t, KindDirectory, d.Kind)
	assert.Equal(t, "utils", d.Base())
}

func TestFileRecord_JSON(t *testing.T) {
	tests := []struct {
		name   string
		record FileRecord
		want   string
	}{
		{
			name:   "file with content",
			record: NewFile("a.py", "x = 1", 5),
			want:   `{"path":"a.py","content":"x = 1","size":5,"kind":"file"}`,
		},
		{
			name:   "absent content omits field",
			record: NewBinaryFile("b.bin", 9),
			want:   `{"path":"b.bin","size":9,"kind":"file"}`,
		},
		{
			name:   "directory",
			record: NewDirectory("docs"),
			want:   `{"path":"docs","size":0,"kind":"directory"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.record)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var decoded FileRecord
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.record, decoded)
		})
	}
}

func TestFileRecord_UnmarshalDirectoryIgnoresContent(t *testing.T) {
	var f FileRecord
	require.NoError(t, json.Unmarshal([]byte(`{"path":"d","content":"x","kind":"directory"}`), &f))

	assert.False(t, f.HasContent())
}
