package codec

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Entry describes one framed record found by Scan.
type Entry struct {
	Name   string
	Header Header
	Offset int
}

// Scan walks the record headers in data without decoding bodies.
func (c *Codec) Scan(data []byte) ([]Entry, error) {
	r := c.NewReader(data)
	var entries []Entry
	for r.Remaining() > 0 {
		off := r.Offset()
		h, err := ReadHeader(r)
		if err != nil {
			return nil, err
		}
		if err := r.Skip(h.Length); err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Offset: off, Header: h, Name: c.tags.Name(h.Code)})
		if h.Code == EndCode {
			break
		}
	}
	return entries, nil
}

// Describe renders a table of the framed records in data.
func (c *Codec) Describe(data []byte) (string, error) {
	entries, err := c.Scan(data)
	if err != nil {
		return "", err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Offset", "Code", "Name", "Header", "Length"})

	total := 0
	for i, e := range entries {
		form := "short"
		if e.Header.Len() > shortHeaderLen {
			form = "long"
		}
		tw.AppendRow(table.Row{
			i,
			e.Offset,
			e.Header.Code,
			e.Name,
			form,
			humanize.Bytes(uint64(e.Header.Length)),
		})
		total += e.Header.Len() + e.Header.Length
	}
	tw.AppendFooter(table.Row{"", "", "", strconv.Itoa(len(entries)) + " records", "", humanize.Bytes(uint64(total))})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render(), nil
}
