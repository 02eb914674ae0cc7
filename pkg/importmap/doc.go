// Package importmap turns npm dependency declarations into a browser import
// map that points every bare specifier at a package CDN.
//
// # Overview
//
// Resolution runs in three pure steps:
//
//  1. [Classify] sorts a version specifier into a [Kind]: exact version,
//     semver range, wildcard, or one of the non-registry forms (git, local
//     path, URL, GitHub shorthand) that no CDN can serve.
//  2. [BuildURL] renders a CDN URL for a name and optional version. The
//     version is percent-encoded the way browsers encode URI components, so
//     "^4.17.0" becomes "%5E4.17.0".
//  3. [Resolve] walks the selected manifest sections in order, writing one
//     URL per package into an insertion-ordered [Imports]. Later sections
//     overwrite earlier ones, so callers list "dependencies" last.
//
// Entries that cannot be resolved are never half-written. They are reported
// through [Options.Logger] and collected in [Result.Skipped].
//
// # Output
//
// [Emit] wraps the mapping in a [Document]. [Document.Marshal] produces
// 2-space indented JSON with keys in insertion order, stable enough for
// byte-for-byte comparison:
//
//	{
//	  "imports": {
//	    "lodash": "https://unpkg.com/lodash@%5E4.17.0"
//	  }
//	}
//
// [Parse] reads a document back and [Document.Lookup] applies the browser's
// specifier matching rules to it, which is useful for checking a generated
// map without a browser.
//
// # Supported CDNs
//
//   - skypack: https://cdn.skypack.dev/{name}@{version}
//   - esm:     https://esm.sh/{name}@{version}
//   - jspm:    https://jspm.dev/npm:{name}@{version}
//   - unpkg:   https://unpkg.com/{name}@{version}
package importmap
