package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

// Offline keyspace dump. Opens the store read-only, so it can run
// against a live server's directory.
func main() {
	dbPath := flag.String("db", "/tmp/badger", "Path to badger DB")
	// Default to the user records; index prefixes (userid:, contactidx:,
	// groupidx:) are just pointers and rarely interesting on their own.
	prefix := flag.String("prefix", "user:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Detail"})
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
				table.Append(toRow(key, v))
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

// toRow decodes the JSON value far enough to say what the key holds.
// Unknown shapes degrade to a raw size column instead of failing the
// whole dump.
func toRow(key string, val []byte) []string {
	namespace := strings.SplitN(key, ":", 2)[0]

	var record struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		Name      string `json:"name"`
		Content   string `json:"content"`
		CreatedAt int64  `json:"created_at"`
		SentAt    int64  `json:"sent_at"`
	}
	if err := json.Unmarshal(val, &record); err != nil {
		return []string{key, strings.ToUpper(namespace), "--:--:--", "--------",
			fmt.Sprintf("raw, %d bytes", len(val))}
	}

	ts := record.CreatedAt
	if record.SentAt != 0 {
		ts = record.SentAt
	}
	timestamp := "--:--:--"
	if ts != 0 {
		timestamp = time.Unix(0, ts).UTC().Format("15:04:05")
	}

	displayID := record.ID
	if len(displayID) > 8 {
		displayID = displayID[:8]
	}

	detail := record.Name
	if record.Content != "" {
		detail = record.Content
	}
	if record.Username != "" {
		detail = record.Username + " / " + detail
	}

	return []string{key, strings.ToUpper(namespace), timestamp, displayID, detail}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
