// Package scripts resolves the shell script bodies embedded into generated
// config maps.
//
// A script is referenced by a Ref that carries either inline text or a
// file name. Resolvers turn a Ref into text: FSResolver reads from an
// fs.FS (the embedded defaults shipped with the binary), DirResolver reads
// from a directory on disk (usually the one holding the starship config).
// Chain combines several resolvers, falling through only when a script is
// not found.
package scripts
