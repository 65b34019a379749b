package scripts

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed default/*
var defaultFS embed.FS

// Logical script names. Chains override scripts by these names.
const (
	CreateGenesis   = "createGenesis"
	UpdateGenesis   = "updateGenesis"
	UpdateConfig    = "updateConfig"
	CreateValidator = "createValidator"
	TransferTokens  = "transferTokens"
	BuildChain      = "buildChain"
	ChainRPCReady   = "chainRpcReady"
	IBCConnection   = "ibcConnection"
	CreateICS       = "createICS"
)

// KeysFile is the embedded default mnemonic set.
const KeysFile = "keys.json"

// defaultFiles maps logical names to the file name the scripts are mounted
// under inside containers (/scripts/<file>).
var defaultFiles = map[string]string{
	CreateGenesis:   "create-genesis.sh",
	UpdateGenesis:   "update-genesis.sh",
	UpdateConfig:    "update-config.sh",
	CreateValidator: "create-validator.sh",
	TransferTokens:  "transfer-tokens.sh",
	BuildChain:      "build-chain.sh",
	ChainRPCReady:   "chain-rpc-ready.sh",
	IBCConnection:   "ibc-connection.sh",
	CreateICS:       "create-ics.sh",
}

// ErrScriptNotFound is returned when a reference does not resolve to any script.
var ErrScriptNotFound = errors.New("script not found")

// Ref points at a script body, either inline or by file name.
type Ref struct {
	File string `mapstructure:"file" yaml:"file,omitempty" json:"file,omitempty"`
	Data string `mapstructure:"data" yaml:"data,omitempty" json:"data,omitempty"`
}

// IsZero reports whether neither field is set.
func (r Ref) IsZero() bool {
	return r.File == "" && r.Data == ""
}

func (r Ref) String() string {
	if r.Data != "" {
		return "inline script"
	}
	return r.File
}

// ResolutionError reports a reference that could not be turned into text.
type ResolutionError struct {
	Ref Ref
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Ref.IsZero() {
		return fmt.Sprintf("resolve script: neither file nor data set: %v", e.Err)
	}
	return fmt.Sprintf("resolve script %q: %v", e.Ref.String(), e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolver turns a script reference into the script body.
type Resolver interface {
	Resolve(ref Ref) (string, error)
}

// Names returns all logical script names in a stable order.
func Names() []string {
	names := make([]string, 0, len(defaultFiles))
	for name := range defaultFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileName returns the mount file name of a logical script.
func FileName(logical string) (string, bool) {
	f, ok := defaultFiles[logical]
	return f, ok
}

// DefaultRef returns the reference to the embedded default of a logical script.
func DefaultRef(logical string) Ref {
	return Ref{File: defaultFiles[logical]}
}

// inline handles the part of resolution shared by every resolver.
func inline(ref Ref) (string, bool, error) {
	if ref.Data != "" {
		return ref.Data, true, nil
	}
	if ref.File == "" {
		return "", true, &ResolutionError{Ref: ref, Err: ErrScriptNotFound}
	}
	return "", false, nil
}

// FSResolver resolves file references against an fs.FS.
type FSResolver struct {
	fsys fs.FS
}

// NewFSResolver creates a resolver reading from fsys.
func NewFSResolver(fsys fs.FS) *FSResolver {
	return &FSResolver{fsys: fsys}
}

// Embedded returns a resolver over the default scripts shipped with the binary.
func Embedded() *FSResolver {
	sub, err := fs.Sub(defaultFS, "default")
	if err != nil {
		// default/ is embedded at build time; Sub only fails on an invalid path.
		panic(err)
	}
	return NewFSResolver(sub)
}

// Resolve implements Resolver.
func (r *FSResolver) Resolve(ref Ref) (string, error) {
	if body, done, err := inline(ref); done {
		return body, err
	}

	name := path.Clean(strings.TrimPrefix(filepath.ToSlash(ref.File), "./"))
	if !fs.ValidPath(name) {
		return "", &ResolutionError{Ref: ref, Err: ErrScriptNotFound}
	}

	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &ResolutionError{Ref: ref, Err: ErrScriptNotFound}
		}
		return "", &ResolutionError{Ref: ref, Err: err}
	}
	return string(data), nil
}

// DirResolver resolves file references relative to a base directory on disk.
// Absolute file names are read as-is.
type DirResolver struct {
	base string
}

// NewDirResolver creates a resolver rooted at base.
func NewDirResolver(base string) *DirResolver {
	return &DirResolver{base: base}
}

// Resolve implements Resolver.
func (r *DirResolver) Resolve(ref Ref) (string, error) {
	if body, done, err := inline(ref); done {
		return body, err
	}

	p := ref.File
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.base, p)
	}

	// #nosec G304
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &ResolutionError{Ref: ref, Err: ErrScriptNotFound}
		}
		return "", &ResolutionError{Ref: ref, Err: err}
	}
	return string(data), nil
}

// Chain tries each resolver in order. Only ErrScriptNotFound moves on to the
// next resolver; any other failure is returned immediately.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(ref Ref) (string, error) {
	if body, done, err := inline(ref); done {
		return body, err
	}

	var last error = &ResolutionError{Ref: ref, Err: ErrScriptNotFound}
	for _, r := range c {
		body, err := r.Resolve(ref)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, ErrScriptNotFound) {
			return "", err
		}
		last = err
	}
	return "", last
}

// IsBuiltin reports whether ref names one of the embedded assets exactly as
// DefaultRef (or the keys file) spells it.
func IsBuiltin(ref Ref) bool {
	if ref.Data != "" {
		return false
	}
	if ref.File == KeysFile {
		return true
	}
	for _, f := range defaultFiles {
		if ref.File == f {
			return true
		}
	}
	return false
}

// builtinResolver serves only the built-in references from the embedded
// set, so a user override naming a missing file is never answered with a
// default body.
type builtinResolver struct {
	embedded *FSResolver
}

// Resolve implements Resolver.
func (r builtinResolver) Resolve(ref Ref) (string, error) {
	if body, done, err := inline(ref); done {
		return body, err
	}
	if !IsBuiltin(ref) {
		return "", &ResolutionError{Ref: ref, Err: ErrScriptNotFound}
	}
	return r.embedded.Resolve(ref)
}

// Default returns the resolver used by the CLI: files next to the config
// first, then the embedded defaults for built-in references only.
func Default(configDir string) Resolver {
	builtins := builtinResolver{embedded: Embedded()}
	if configDir == "" {
		return Chain{builtins}
	}
	return Chain{NewDirResolver(configDir), builtins}
}
