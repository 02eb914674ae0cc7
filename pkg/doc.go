// Package pkg provides the libraries behind npmap, which turns the
// dependencies of an npm package.json into a browser import map.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. [importmap] - Core logic (classify specifiers, build CDN URLs,
//     reduce dependency sections, emit the document)
//  2. [manifest], [pipeline] - Loading package.json and orchestration
//  3. [cache], [httputil], [errors], [observability], [buildinfo] -
//     Infrastructure
//
// # Architecture
//
// The typical data flow through npmap:
//
//	package.json (file or URL)
//	         ↓
//	    [manifest] package (load + order-preserving decode)
//	         ↓
//	    [importmap.Resolve] (classify → build URL → insert)
//	         ↓
//	    [importmap.Document] (JSON with 2-space indent)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source: "package.json",
//	    CDN:    importmap.ESM,
//	})
//	if err != nil {
//	    return err
//	}
//	res.Document.WriteTo(os.Stdout)
//
// [importmap]: https://pkg.go.dev/github.com/matzehuels/npmap/pkg/importmap
// [importmap.Resolve]: https://pkg.go.dev/github.com/matzehuels/npmap/pkg/importmap#Resolve
// [importmap.Document]: https://pkg.go.dev/github.com/matzehuels/npmap/pkg/importmap#Document
// [manifest]: https://pkg.go.dev/github.com/matzehuels/npmap/pkg/manifest
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/npmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/npmap/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/npmap/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/npmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/npmap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/npmap/pkg/buildinfo
package pkg
