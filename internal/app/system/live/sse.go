package live

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// heartbeat keeps idle connections open through proxies.
const heartbeat = 25 * time.Second

// ServeSSE streams every snapshot of src to the client as a server-sent
// "snapshot" event holding a JSON array. The subscription is closed when the
// client goes away.
func ServeSSE[T any](w http.ResponseWriter, r *http.Request, src Source[T], opts Options[T]) {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var wmu sync.Mutex
	write := func(format string, args ...any) {
		wmu.Lock()
		defer wmu.Unlock()
		fmt.Fprintf(w, format, args...)
		flusher.Flush()
	}

	ctx := r.Context()
	sub := Open(ctx, src, opts, func(items []T) {
		b, err := json.Marshal(items)
		if err != nil {
			opts.Log.Error("encode snapshot failed", zap.String("feed", opts.Feed), zap.Error(err))
			return
		}
		write("event: snapshot\ndata: %s\n\n", b)
	})

	tick := time.NewTicker(heartbeat)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			sub.Close()
			<-sub.Done()
			return
		case <-tick.C:
			write(": ping\n\n")
		}
	}
}
