package scripts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedResolvesAllDefaults(t *testing.T) {
	r := Embedded()
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			body, err := r.Resolve(DefaultRef(name))
			require.NoError(t, err)
			assert.Contains(t, body, "#!/bin/bash")
		})
	}
}

func TestEmbeddedKeys(t *testing.T) {
	body, err := Embedded().Resolve(Ref{File: KeysFile})
	require.NoError(t, err)
	assert.Contains(t, body, `"validators"`)
}

func TestResolve_InlineWins(t *testing.T) {
	resolvers := map[string]Resolver{
		"fs":    NewFSResolver(fstest.MapFS{}),
		"dir":   NewDirResolver(t.TempDir()),
		"chain": Chain{Embedded()},
	}
	for name, r := range resolvers {
		t.Run(name, func(t *testing.T) {
			body, err := r.Resolve(Ref{File: "missing.sh", Data: "echo inline"})
			require.NoError(t, err)
			assert.Equal(t, "echo inline", body)
		})
	}
}

func TestResolve_EmptyRef(t *testing.T) {
	_, err := Embedded().Resolve(Ref{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScriptNotFound)

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Contains(t, resErr.Error(), "neither file nor data")
}

func TestFSResolver(t *testing.T) {
	fsys := fstest.MapFS{
		"create-genesis.sh": {Data: []byte("echo genesis")},
	}
	r := NewFSResolver(fsys)

	tests := []struct {
		name    string
		ref     Ref
		want    string
		wantErr bool
	}{
		{"exact name", Ref{File: "create-genesis.sh"}, "echo genesis", false},
		{"dot prefix", Ref{File: "./create-genesis.sh"}, "echo genesis", false},
		{"nested path is not flattened", Ref{File: "scripts/create-genesis.sh"}, "", true},
		{"missing", Ref{File: "nope.sh"}, "", true},
		{"escaping path", Ref{File: "../etc/passwd"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrScriptNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirResolver(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "custom.sh"), []byte("echo custom"), 0o600))

	r := NewDirResolver(dir)

	body, err := r.Resolve(Ref{File: "scripts/custom.sh"})
	require.NoError(t, err)
	assert.Equal(t, "echo custom", body)

	body, err = r.Resolve(Ref{File: filepath.Join(dir, "scripts", "custom.sh")})
	require.NoError(t, err)
	assert.Equal(t, "echo custom", body)

	_, err = r.Resolve(Ref{File: "scripts/missing.sh"})
	assert.ErrorIs(t, err, ErrScriptNotFound)
}

type failingResolver struct{ err error }

func (f failingResolver) Resolve(Ref) (string, error) { return "", f.err }

func TestChain(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "update-config.sh"), []byte("echo override"), 0o600))

	t.Run("first match wins", func(t *testing.T) {
		body, err := Default(dir).Resolve(Ref{File: "update-config.sh"})
		require.NoError(t, err)
		assert.Equal(t, "echo override", body)
	})

	t.Run("falls through to embedded", func(t *testing.T) {
		body, err := Default(dir).Resolve(Ref{File: "create-ics.sh"})
		require.NoError(t, err)
		assert.Contains(t, body, "consumer-addition")
	})

	t.Run("not found anywhere", func(t *testing.T) {
		_, err := Default(dir).Resolve(Ref{File: "does-not-exist.sh"})
		assert.ErrorIs(t, err, ErrScriptNotFound)
	})

	t.Run("missing override is not replaced by a default", func(t *testing.T) {
		for _, file := range []string{"my-scripts/create-genesis.sh", "./custom/update-config.sh", "create-genesis-v2.sh"} {
			body, err := Default(dir).Resolve(Ref{File: file})
			require.Error(t, err, file)
			assert.ErrorIs(t, err, ErrScriptNotFound)
			assert.Empty(t, body)
		}
	})

	t.Run("no config dir serves built-ins only", func(t *testing.T) {
		body, err := Default("").Resolve(DefaultRef(CreateGenesis))
		require.NoError(t, err)
		assert.NotEmpty(t, body)

		_, err = Default("").Resolve(Ref{File: "scripts/create-genesis.sh"})
		assert.ErrorIs(t, err, ErrScriptNotFound)
	})

	t.Run("hard failure stops the chain", func(t *testing.T) {
		boom := errors.New("permission denied")
		c := Chain{failingResolver{err: &ResolutionError{Ref: Ref{File: "x"}, Err: boom}}, Embedded()}
		_, err := c.Resolve(Ref{File: "create-ics.sh"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestIsBuiltin(t *testing.T) {
	tests := []struct {
		ref  Ref
		want bool
	}{
		{DefaultRef(UpdateConfig), true},
		{Ref{File: KeysFile}, true},
		{Ref{File: "scripts/update-config.sh"}, false},
		{Ref{File: "custom.sh"}, false},
		{Ref{Data: "echo inline"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBuiltin(tt.ref), tt.ref.String())
	}
}

func TestNamesAndFileName(t *testing.T) {
	names := Names()
	assert.Len(t, names, 9)
	assert.IsIncreasing(t, names)

	f, ok := FileName(ChainRPCReady)
	assert.True(t, ok)
	assert.Equal(t, "chain-rpc-ready.sh", f)

	_, ok = FileName("unknown")
	assert.False(t, ok)
}
