package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"chat-hub/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// messageRow mirrors the stored JSON shape of a chat message.
type messageRow struct {
	ID       string `json:"id"`
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Content  string `json:"content"`
	At       int64  `json:"at"`
}

// inspect dumps the hub's badger keyspace as a table, one prefix at a time:
//
//	go run ./cmd/inspect -db ./data -prefix msg:
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, room: or user:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Timestamp", "Entity ID", "Who", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				row, err := toRow(key, v)
				if err != nil {
					// Log and keep going instead of stopping the whole dump
					fmt.Printf("Error decoding key %s: %v\n", key, err)
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func toRow(key string, val []byte) ([]string, error) {
	switch {
	case strings.HasPrefix(key, "msg:"):
		var row messageRow
		if err := json.Unmarshal(val, &row); err != nil {
			return nil, err
		}
		return []string{
			key, "MSG",
			time.Unix(0, row.At).Format("15:04:05"),
			shortID(row.ID),
			row.Username,
			row.Content,
		}, nil
	case strings.HasPrefix(key, "room:"):
		var room repositories.Room
		if err := json.Unmarshal(val, &room); err != nil {
			return nil, err
		}
		return []string{
			key, "ROOM",
			room.CreatedAt.Format("15:04:05"),
			shortID(room.ID),
			room.RequiredRole,
			fmt.Sprintf("%s (%s)", room.Name, room.Kind),
		}, nil
	case strings.HasPrefix(key, "user:"):
		var user repositories.User
		if err := json.Unmarshal(val, &user); err != nil {
			return nil, err
		}
		return []string{
			key, "USER",
			"--:--:--",
			shortID(user.ID),
			user.Role,
			user.Username,
		}, nil
	default:
		return []string{key, "RAW", "--:--:--", "--------", "-",
			fmt.Sprintf("Size: %d bytes", len(val))}, nil
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)
	return badger.Open(opts)
}
