package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/answer-trust/internal/pipeline"
	"github.com/sells-group/answer-trust/internal/store"
)

// initStore opens and migrates the configured store.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// writeArtifact writes v as name under dir and logs where it went.
func writeArtifact(dir, name string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "create %s", dir)
	}
	path := filepath.Join(dir, name)
	if err := pipeline.WriteJSON(path, v); err != nil {
		return "", err
	}
	zap.L().Info("wrote artifact", zap.String("path", path))
	return path, nil
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printProgress renders crawl progress on stderr.
func printProgress(percent int, message string) {
	fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, message)
}
