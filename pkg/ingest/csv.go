// Package ingest turns tabular source data into the entity graph.
//
// Each CSV row becomes a node. One column provides the node ID, optional
// link columns reference other rows by ID and become edges, and every other
// column becomes a node attribute. Cells may hold several values separated
// by a configurable separator.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/model"
)

// Options controls column interpretation.
type Options struct {
	// IDColumn names the identifier column. Empty selects the first column.
	IDColumn string

	// LabelColumn names the display label column. Empty leaves labels unset.
	LabelColumn string

	// LinkColumns name columns whose values reference other rows by ID.
	LinkColumns []string

	// MultiValueSeparator splits cells into several values. Empty means ";".
	MultiValueSeparator string
}

// ReadCSV parses CSV data into a document of nodes and edges.
//
// A link cell that references no existing row creates a stub node for the
// missing target, so the reference still renders instead of silently
// vanishing. Duplicate row IDs keep the first row. Empty cells contribute
// neither attributes nor links.
func ReadCSV(r io.Reader, opts Options) (*model.Document, error) {
	sep := opts.MultiValueSeparator
	if sep == "" {
		sep = ";"
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty input")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read header")
	}

	idCol := 0
	if opts.IDColumn != "" {
		idCol = columnIndex(header, opts.IDColumn)
		if idCol < 0 {
			return nil, errors.New(errors.ErrCodeInvalidColumn, "id column %q not in header", opts.IDColumn)
		}
	}
	labelCol := -1
	if opts.LabelColumn != "" {
		labelCol = columnIndex(header, opts.LabelColumn)
		if labelCol < 0 {
			return nil, errors.New(errors.ErrCodeInvalidColumn, "label column %q not in header", opts.LabelColumn)
		}
	}
	linkCols := make(map[int]bool, len(opts.LinkColumns))
	for _, name := range opts.LinkColumns {
		idx := columnIndex(header, name)
		if idx < 0 {
			return nil, errors.New(errors.ErrCodeInvalidColumn, "link column %q not in header", name)
		}
		linkCols[idx] = true
	}

	doc := &model.Document{}
	seen := make(map[string]bool)
	type link struct{ source, column, target string }
	var links []link

	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read row %d", row)
		}
		if idCol >= len(record) {
			continue
		}
		id := strings.TrimSpace(record[idCol])
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		node := model.Node{ID: id}
		if labelCol >= 0 && labelCol < len(record) {
			node.Label = strings.TrimSpace(record[labelCol])
		}

		for col, cell := range record {
			if col == idCol || col == labelCol || col >= len(header) {
				continue
			}
			values := splitCell(cell, sep)
			if len(values) == 0 {
				continue
			}
			if linkCols[col] {
				for _, target := range values {
					links = append(links, link{source: id, column: header[col], target: target})
				}
				continue
			}
			node.Attributes = append(node.Attributes, model.Attribute{
				Name:   header[col],
				Values: values,
			})
		}

		doc.Nodes = append(doc.Nodes, node)
	}

	// Resolve links after all rows are known. Unknown targets get stub nodes.
	for i, l := range links {
		if !seen[l.target] {
			seen[l.target] = true
			doc.Nodes = append(doc.Nodes, model.Node{ID: l.target, Stub: true})
		}
		doc.Edges = append(doc.Edges, model.Edge{
			ID:     fmt.Sprintf("%s:%s:%d", l.source, l.column, i),
			Source: l.source,
			Target: l.target,
			Label:  l.column,
		})
	}

	return doc, nil
}

// splitCell splits a cell on the separator, trimming and dropping empties.
func splitCell(cell, sep string) []string {
	var values []string
	for _, part := range strings.Split(cell, sep) {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
