package internal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/shirou/gopsutil/process"
)

// StatsProvider supplies hub counters (connections, presence entries) that
// live outside this package.
type StatsProvider func() map[string]any

// DebugStats is the payload of the /debug/stats endpoint.
type DebugStats struct {
	Rooms     int64          `json:"rooms"`
	Users     int64          `json:"users"`
	Messages  int64          `json:"messages"`
	AllocMb   uint64         `json:"alloc_mem_mb"`
	NumGC     uint32         `json:"num_gc"`
	CPU       float64        `json:"cpu_percent"`
	RAM       float32        `json:"ram_percent"`
	Uptime    string         `json:"uptime"`
	Hub       map[string]any `json:"hub,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// StartDebugServer exposes store counts, process metrics and a raw key
// listing on a dedicated port. Best effort only, errors are logged and the
// main server keeps running.
func StartDebugServer(log *slog.Logger, db *badger.DB, port int, statsProvider StatsProvider) {
	started := time.Now()
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/stats", func(w http.ResponseWriter, r *http.Request) {
		stats := DebugStats{
			Rooms:     countPrefix(db, "room:"),
			Users:     countPrefix(db, "user:"),
			Messages:  countPrefix(db, "msg:"),
			Uptime:    time.Since(started).Round(time.Second).String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		stats.AllocMb = mem.Alloc / 1024 / 1024
		stats.NumGC = mem.NumGC

		if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
			if cpu, err := p.CPUPercent(); err == nil {
				stats.CPU = cpu
			}
			if ram, err := p.MemoryPercent(); err == nil {
				stats.RAM = ram
			}
		}

		if statsProvider != nil {
			stats.Hub = statsProvider()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	})

	mux.HandleFunc("/debug/keys", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "room:"
		}

		keys := make([]string, 0)
		_ = db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = false
			it := txn.NewIterator(opts)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				keys = append(keys, string(it.Item().KeyCopy(nil)))
			}
			return nil
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"prefix": prefix, "keys": keys})
	})

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%d", port)
		log.Info("Debug server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Warn("Debug server stopped", "error", err)
		}
	}()
}

func countPrefix(db *badger.DB, prefix string) int64 {
	var count int64
	_ = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			count++
		}
		return nil
	})
	return count
}
