package assets

// Built-in asset names.
const (
	DefaultStyleName = "default"

	DocumentTemplate = "document"
	WordTemplate     = "word"
	IndexTemplate    = "index"
)

// AssetLoader defines the contract for loading stylesheets and HTML templates.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// assetKind describes where one category of asset lives and how a miss is reported.
type assetKind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = assetKind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = assetKind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// relPath returns the slash-separated path of name inside the asset tree.
func (k assetKind) relPath(name string) string {
	return k.dir + "/" + name + k.ext
}
