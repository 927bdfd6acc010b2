// Command journal prints the delivery journal of a stopped or running notifier.
package main

import (
	"chat-notify/domain"
	"chat-notify/repositories"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	limit := flag.Int("limit", 50, "Deliveries per page")
	cursor := flag.String("cursor", "", "Continue after this cursor")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	repository := repositories.NewDeliveryRepository(db, logs.GetLoggerFromLevel(slog.LevelWarn), *limit, 0)
	var from *string
	if *cursor != "" {
		from = cursor
	}

	deliveries, next, err := repository.GetDeliveries(from)
	if err != nil {
		log.Fatal(err)
	}
	render(os.Stdout, deliveries)
	if next != nil && len(deliveries) == *limit {
		fmt.Printf("\nnext page: -cursor %s\n", *next)
	}
}

func render(out io.Writer, deliveries []domain.Delivery) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"At", "Status", "User", "Title", "Job", "Error"})
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

	for _, d := range deliveries {
		// The first 8 characters of the job id are enough to correlate with the logs
		jobID := d.JobID.String()
		if len(jobID) > 8 {
			jobID = jobID[:8]
		}
		table.Append([]string{
			d.At.Local().Format("2006-01-02 15:04:05"),
			string(d.Status),
			string(d.UserID),
			d.Title,
			jobID,
			d.Error,
		})
	}
	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		if strings.Contains(err.Error(), "Log truncate required") {
			// Open in write mode once so that Badger truncates the log, then read only again
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			_ = db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
