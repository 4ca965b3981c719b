// Package viewer serves a page that shows the ledger events as they happen.
package viewer

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/web"
)

//go:embed index.html
var index []byte

// Index writes the viewer page. The page connects to the events websocket.
func Index(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := web.SetStatusCode(ctx, http.StatusOK); err != nil {
		return web.NewShutdownError(err.Error())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(index)

	return nil
}
