package manifests

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/starship-devnet/starship/internal/config"
	"github.com/starship-devnet/starship/internal/observability"
	"github.com/starship-devnet/starship/internal/scripts"
	"github.com/starship-devnet/starship/internal/util/labels"
)

// Output file names, in the order they are written.
const (
	FileConfigMap = "configmap.yaml"
	FileService   = "service.yaml"
	FileGenesis   = "genesis.yaml"
	FileValidator = "validator.yaml"
	FileKeys      = "keys.yaml"
)

var fileOrder = []string{FileConfigMap, FileService, FileGenesis, FileValidator}

// isChainFile reports whether name is a per-chain output file name.
func isChainFile(name string) bool {
	for _, f := range fileOrder {
		if name == f {
			return true
		}
	}
	return false
}

// File is one rendered output file.
type File struct {
	Path      string // relative to the output directory
	Documents int
	Data      []byte
}

// fileFor returns the output file a manifest belongs in.
func fileFor(m Manifest) (string, error) {
	switch kind := m.GetObjectKind().GroupVersionKind().Kind; kind {
	case "ConfigMap":
		return FileConfigMap, nil
	case "Service":
		return FileService, nil
	case "StatefulSet":
		switch m.GetLabels()[labels.KeyRole] {
		case labels.RoleGenesis:
			return FileGenesis, nil
		case labels.RoleValidator:
			return FileValidator, nil
		}
		return "", fmt.Errorf("statefulset %s has no known role", m.GetName())
	default:
		return "", fmt.Errorf("unsupported manifest kind %q", kind)
	}
}

// ToYAML serializes one object, dropping the server-populated fields.
func ToYAML(obj runtime.Object) ([]byte, error) {
	raw, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert object: %w", err)
	}

	unstructured.RemoveNestedField(raw, "status")
	unstructured.RemoveNestedField(raw, "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(raw, "spec", "template", "metadata", "creationTimestamp")

	out, err := sigsyaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML document: %w", err)
	}
	return out, nil
}

// joinDocuments serializes objects into one multi-document YAML stream.
func joinDocuments(objs []runtime.Object) ([]byte, error) {
	var buf bytes.Buffer
	for i, obj := range objs {
		doc, err := ToYAML(obj)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(doc)
	}
	return buf.Bytes(), nil
}

// RenderChain renders the files of one chain under <host>/. Empty
// categories produce no file.
func RenderChain(cm ChainManifests) ([]File, error) {
	groups := make(map[string][]runtime.Object, len(fileOrder))
	for _, m := range cm.Manifests {
		name, err := fileFor(m)
		if err != nil {
			return nil, fmt.Errorf("chain %s: %w", cm.Chain.ID, err)
		}
		groups[name] = append(groups[name], m)
	}

	var files []File
	for _, name := range fileOrder {
		objs := groups[name]
		if len(objs) == 0 {
			continue
		}
		data, err := joinDocuments(objs)
		if err != nil {
			return nil, fmt.Errorf("chain %s: %w", cm.Chain.ID, err)
		}
		files = append(files, File{
			Path:      filepath.Join(cm.Chain.Host, name),
			Documents: len(objs),
			Data:      data,
		})
	}
	return files, nil
}

// Render renders every file of a network.
func Render(res *Result) ([]File, error) {
	var files []File
	if res.Keys != nil {
		data, err := ToYAML(res.Keys)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: FileKeys, Documents: 1, Data: data})
	}
	for _, cm := range res.Chains {
		chainFiles, err := RenderChain(cm)
		if err != nil {
			return nil, err
		}
		files = append(files, chainFiles...)
	}
	return files, nil
}

// Writer persists rendered manifests below an output directory.
type Writer struct {
	outDir   string
	observer observability.Observer
}

// NewWriter creates a writer for outDir.
func NewWriter(outDir string, observer observability.Observer) *Writer {
	if observer == nil {
		observer = observability.NopObserver{}
	}
	return &Writer{outDir: outDir, observer: observer}
}

// WriteFiles renders res and writes it. Every file is rendered before the
// first one is written, so a rendering error leaves the directory alone.
// Output files of an earlier run that the new render no longer produces are
// removed afterwards. It returns the written paths.
func (w *Writer) WriteFiles(res *Result) ([]string, error) {
	files, err := Render(res)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(w.outDir, f.Path)
		if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil {
			return paths, fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
		if err := os.WriteFile(p, f.Data, 0600); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", p, err)
		}
		observability.FileWritten(w.observer, p, f.Documents)
		paths = append(paths, p)
	}

	if err := w.prune(files); err != nil {
		return paths, err
	}
	return paths, nil
}

// prune deletes per-chain output files left over from an earlier run. A
// chain directory that is not part of the new render is only touched when
// it holds nothing but output files; it is removed once empty.
func (w *Writer) prune(files []File) error {
	keep := make(map[string]bool, len(files))
	keepDirs := make(map[string]bool, len(files))
	for _, f := range files {
		keep[filepath.Clean(f.Path)] = true
		keepDirs[filepath.Dir(filepath.Clean(f.Path))] = true
	}

	dirs, err := os.ReadDir(w.outDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read output directory %s: %w", w.outDir, err)
	}

	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		dir := filepath.Join(w.outDir, d.Name())
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", dir, err)
		}

		current := keepDirs[d.Name()]
		if !current && !onlyChainFiles(entries) {
			continue
		}

		for _, e := range entries {
			if e.IsDir() || !isChainFile(e.Name()) || keep[filepath.Join(d.Name(), e.Name())] {
				continue
			}
			p := filepath.Join(dir, e.Name())
			if err := os.Remove(p); err != nil {
				return fmt.Errorf("failed to remove stale %s: %w", p, err)
			}
			observability.FileRemoved(w.observer, p)
		}

		if !current {
			if err := os.Remove(dir); err != nil {
				return fmt.Errorf("failed to remove stale directory %s: %w", dir, err)
			}
		}
	}
	return nil
}

func onlyChainFiles(entries []os.DirEntry) bool {
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if e.IsDir() || !isChainFile(e.Name()) {
			return false
		}
	}
	return true
}

// GenerateAllFiles builds every chain of cfg and writes the result to
// outDir. No file is written when any chain fails.
func GenerateAllFiles(cfg *config.Config, resolver scripts.Resolver, outDir string, observer observability.Observer) (*Result, []string, error) {
	res, err := NewBuilder(cfg, resolver, WithObserver(observer)).BuildAll()
	if err != nil {
		return nil, nil, err
	}
	paths, err := NewWriter(outDir, observer).WriteFiles(res)
	if err != nil {
		return res, paths, err
	}
	return res, paths, nil
}
