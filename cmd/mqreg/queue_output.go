package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"mqreg/internal/mqueue"
	"mqreg/internal/ops"
)

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeQueues prints query results as a table on a terminal and in the
// traditional tab-separated layout otherwise.
func writeQueues(out io.Writer, results []ops.InfoResult) {
	if isTerminal(out) {
		fmt.Fprintln(out, renderQueueTable(results))
		return
	}
	for _, result := range results {
		fmt.Fprintln(out, plainQueueLine(result))
	}
}

func plainQueueLine(result ops.InfoResult) string {
	if result.Err != nil {
		return fmt.Sprintf("failed to open %s: %s", result.Name, describeError(result.Err))
	}
	attrs := result.Attributes
	return fmt.Sprintf("%-15s\t%5d\t%5d\t%5d\t%s", result.Name, attrs.MaxMessages, attrs.MessageSize, attrs.CurrentMessages, attrs.Mode())
}

func renderQueueTable(results []ops.InfoResult) string {
	columns := []tableColumn{
		{header: "Name"},
		{header: "Max Msgs", align: alignRight},
		{header: "Msg Size", align: alignRight},
		{header: "Current", align: alignRight},
		{header: "Mode"},
	}
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		if result.Err != nil {
			rows = append(rows, []string{result.Name, "-", "-", "-", "error: " + describeError(result.Err)})
			continue
		}
		attrs := result.Attributes
		rows = append(rows, []string{
			result.Name,
			strconv.FormatInt(attrs.MaxMessages, 10),
			humanize.IBytes(uint64(max(attrs.MessageSize, 0))),
			strconv.FormatInt(attrs.CurrentMessages, 10),
			attrs.Mode(),
		})
	}
	return renderTable(columns, rows)
}

// describeError prefers the OS text for errno-backed failures.
func describeError(err error) string {
	if errors.Is(err, mqueue.ErrExists) {
		return "already exists."
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno.Error()
	}
	return err.Error()
}
