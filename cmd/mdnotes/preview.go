package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alnah/go-mdnotes"
	"github.com/alnah/go-mdnotes/internal/assets"
	"github.com/alnah/go-mdnotes/internal/config"
	"github.com/alnah/go-mdnotes/internal/fileutil"
	"github.com/alnah/go-mdnotes/internal/preview"
)

func runPreview(ctx context.Context, a *app, args []string) error {
	if err := requireArgs("preview", args, 0); err != nil {
		return err
	}
	f, cfg := a.flags, a.cfg

	loader, err := assets.NewAssetResolver(firstNonEmpty(f.export.assets.assetPath, cfg.Assets.BasePath))
	if err != nil {
		return fmt.Errorf("%w: %v", mdnotes.ErrInvalidAssetDir, err)
	}
	css, err := resolveCSSContent(firstNonEmpty(f.export.assets.style, cfg.Export.Style), loader)
	if err != nil {
		return err
	}

	addr := firstNonEmpty(f.addr, cfg.Preview.Addr, config.DefaultAddr)

	return withNotebook(ctx, a, func(nb *mdnotes.Notebook) error {
		opts := []preview.Option{
			preview.WithSanitize(cfg.Preview.Sanitize),
			preview.WithStyle(css),
			preview.WithAssets(loader),
			preview.WithDateFormat(cfg.Display.DateFormat),
			preview.WithLogf(a.logf),
		}
		srv, err := preview.NewServer(nb, opts...)
		if err != nil {
			return err
		}

		ln, err := a.env.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", addr, err)
		}
		a.printf("Serving notes at http://%s (Ctrl-C to stop)\n", ln.Addr())
		return srv.Serve(ctx, ln)
	})
}

// resolveCSSContent resolves a style name, CSS file path or raw CSS to CSS.
// Empty input selects the default style.
func resolveCSSContent(style string, loader assets.AssetLoader) (string, error) {
	switch {
	case style == "":
		return loader.LoadStyle(assets.DefaultStyleName)
	case fileutil.IsCSS(style):
		return style, nil
	case fileutil.IsFilePath(style):
		data, err := os.ReadFile(style) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		return string(data), nil
	default:
		css, err := loader.LoadStyle(style)
		if err != nil {
			return "", fmt.Errorf("loading style %q: %w", style, err)
		}
		return css, nil
	}
}
