// Package manifest reads npm package manifests (package.json).
//
// # Overview
//
// A [Manifest] holds the four dependency fields npmap understands:
//
//   - dependencies
//   - devDependencies
//   - peerDependencies
//   - optionalDependencies
//
// Each field decodes into a [Section] whose entries keep the order in which
// they appear in the document. Go maps would lose that order, and the order
// decides the key order of the generated import map.
//
// # Loading
//
// A [Loader] accepts a local path or an http(s) URL:
//
//	loader := manifest.NewLoader(httputil.NewClient(nil), cache.NewNullCache(), 0, logger)
//	m, err := loader.Load(ctx, "https://example.com/package.json", false)
//
// Remote manifests are fetched with retry and stored in the given cache.
// Local paths are read from disk. Failures are returned as coded errors from
// [github.com/matzehuels/npmap/pkg/errors].
//
// # Section Selection
//
// [Selection.Fields] returns the field names to process in precedence order.
// "dependencies" is always last, so it overrides same-named entries from the
// optional extras.
package manifest
