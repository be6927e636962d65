// Command orphans inspects the orphan ledger: objects left behind in the
// object store after a compensating delete failed. With -sweep it retries the
// deletes and drops the entries that succeed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/notespot/internal/ledger"
	"github.com/yourorg/notespot/internal/storage"
)

func main() {
	sweep := flag.Bool("sweep", false, "retry the delete for each recorded orphan")
	flag.Parse()

	l, err := ledger.Open(getenv("LEDGER_PATH", "data/orphans"))
	if err != nil {
		log.Fatal("orphan ledger:", err)
	}
	defer l.Close()

	entries, err := l.Entries()
	if err != nil {
		log.Fatal("reading ledger:", err)
	}
	if len(entries) == 0 {
		fmt.Println("no orphaned objects recorded")
		return
	}

	if !*sweep {
		for _, e := range entries {
			fmt.Printf("%s\t%s/%s\t%s\n", e.RecordedAt.Format(time.RFC3339), e.Bucket, e.Key, e.Reason)
		}
		return
	}

	zl, _ := zap.NewProduction()
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	store, err := storage.NewS3(ctx)
	if err != nil {
		log.Fatal("s3 client:", err)
	}

	for _, e := range entries {
		if err := store.Delete(ctx, e.Bucket, e.Key); err != nil {
			zl.Error("sweep delete failed", zap.String("bucket", e.Bucket), zap.String("key", e.Key), zap.Error(err))
			continue
		}
		if err := l.Resolve(e.Bucket, e.Key); err != nil {
			zl.Error("could not drop ledger entry", zap.String("key", e.Key), zap.Error(err))
			continue
		}
		zl.Info("orphan reclaimed", zap.String("bucket", e.Bucket), zap.String("key", e.Key))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
