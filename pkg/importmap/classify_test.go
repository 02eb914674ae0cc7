package importmap

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name, spec  string
		wantKind    Kind
		wantVersion string
	}{
		// exact versions
		{"lodash", "4.17.21", ExactVersion, "4.17.21"},
		{"react", "18.2.0-rc.1", ExactVersion, "18.2.0-rc.1"},
		{"vite", "5.0.0+build.7", ExactVersion, "5.0.0+build.7"},
		{"zod", "v3.22.4", ExactVersion, "3.22.4"},
		{"zod", " 3.22.4 ", ExactVersion, "3.22.4"},

		// ranges keep the declared text
		{"lodash", "^4.17.0", Range, "^4.17.0"},
		{"lodash", "~4.17.0", Range, "~4.17.0"},
		{"axios", ">=1.0.0 <2.0.0", Range, ">=1.0.0 <2.0.0"},
		{"axios", "1.x", Range, "1.x"},
		{"axios", "1.2", Range, "1.2"},
		{"axios", "1.2.3 - 2.3.4", Range, "1.2.3 - 2.3.4"},
		{"react", "^17.0.0 || ^18.0.0", Range, "^17.0.0 || ^18.0.0"},

		// wildcards
		{"left-pad", "", Wildcard, ""},
		{"left-pad", "*", Wildcard, ""},
		{"left-pad", " * ", Wildcard, ""},

		// unsupported sources
		{"left-pad", "git+https://github.com/stevemao/left-pad.git", GitRef, ""},
		{"left-pad", "git://github.com/stevemao/left-pad.git", GitRef, ""},
		{"left-pad", "https://example.com/left-pad-1.3.0.tgz", RemoteURL, ""},
		{"left-pad", "http://example.com/left-pad.tgz", RemoteURL, ""},
		{"left-pad", "stevemao/left-pad", GitHubRef, ""},
		{"left-pad", "stevemao/left-pad#v1.3.0", GitHubRef, ""},

		// tags pass through
		{"next", "latest", OpaqueTag, "latest"},
		{"next", "canary", OpaqueTag, "canary"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"@"+tt.spec, func(t *testing.T) {
			got := Classify(tt.name, tt.spec)
			if got.Kind != tt.wantKind {
				t.Errorf("Classify(%q, %q).Kind = %s, want %s", tt.name, tt.spec, got.Kind, tt.wantKind)
			}
			if got.Version != tt.wantVersion {
				t.Errorf("Classify(%q, %q).Version = %q, want %q", tt.name, tt.spec, got.Version, tt.wantVersion)
			}
		})
	}
}

// The local path rule inspects the package name, not the specifier. A path
// specifier under an ordinary name is reported as a GitHub reference, and a
// path-like name with a semver specifier still resolves.
func TestClassifyLocalPathChecksName(t *testing.T) {
	tests := []struct {
		name, spec string
		want       Kind
	}{
		{"./lib", "file:./lib", LocalPath},
		{"~utils", "workspace", LocalPath},
		{"/abs", "link:/abs", LocalPath},
		{"lib", "file:./lib", GitHubRef},
		{"lib", "file:lib", OpaqueTag},
		{"./lib", "1.0.0", ExactVersion},
		{"./lib", "git+ssh://git@host/x.git", GitRef},
	}
	for _, tt := range tests {
		if got := Classify(tt.name, tt.spec).Kind; got != tt.want {
			t.Errorf("Classify(%q, %q) = %s, want %s", tt.name, tt.spec, got, tt.want)
		}
	}
}

func TestKindSupported(t *testing.T) {
	supported := map[Kind]bool{
		ExactVersion: true,
		Range:        true,
		Wildcard:     true,
		OpaqueTag:    true,
		GitRef:       false,
		LocalPath:    false,
		RemoteURL:    false,
		GitHubRef:    false,
	}
	for k, want := range supported {
		if got := k.Supported(); got != want {
			t.Errorf("%s.Supported() = %v, want %v", k, got, want)
		}
	}
	if got := Kind(99).String(); got != "unknown" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}
