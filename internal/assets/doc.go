// Package assets provides the stylesheet and HTML templates used to export
// and preview notes. Assets are embedded at compile time and can be
// overridden from a directory on disk.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed filesystem (built-in style and templates)
//	    ├── FilesystemLoader  - custom directory on disk
//	    └── AssetResolver     - custom first, embedded on not-found
//
// AssetResolver is what the exporter and the preview server use. Overriding
// a single file (for example styles/default.css) keeps every other asset
// at its built-in version.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css        # export and preview stylesheet
//	└── templates/
//	    ├── document.html     # standalone HTML export
//	    ├── word.html         # Word-compatible export
//	    └── index.html        # preview server note index
//
// # Security
//
// Asset names are restricted to letters, digits, '-' and '_'.
// FilesystemLoader resolves symlinks and refuses paths leaving basePath.
package assets
