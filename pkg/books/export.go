package books

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// ExportBooks writes every book, with its genre name, to w as an indented
// JSON array in id order.
func (svc *Service) ExportBooks(ctx context.Context, w io.Writer) error {
	list, err := svc.ListBooks(ctx, ListBooksOptions{})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(list))
}
